package main

import (
	"fmt"
	"log"
	"os"

	"github.com/JackWithOneEye/sensiedit/internal/config"
	"github.com/JackWithOneEye/sensiedit/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: terminal ROM")
		os.Exit(2)
	}
	if len(os.Getenv("DEBUG")) > 0 {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			fmt.Println("fatal:", err)
			os.Exit(1)
		}
		defer f.Close()
	}
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	p := tea.NewProgram(tui.NewUIModel(os.Args[1], cfg.ScanWindow()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("Error running terminal UI: %v", err)
		os.Exit(1)
	}
}
