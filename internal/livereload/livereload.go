// Package livereload reloads open editor pages when the server restarts.
// Pages get a small script that holds a websocket open and reloads once a
// new server accepts it again.
package livereload

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var errNoHead = errors.New("no <head> element found")

type Options struct {
	// Path is the websocket route the script connects to.
	Path          string
	RetryInterval time.Duration
	MaxRetries    uint
}

var DefaultOptions = Options{Path: "/_livereload", RetryInterval: 500 * time.Millisecond, MaxRetries: 10}

// bufferedWriter holds the page body back so the script can be added before
// anything reaches the client.
type bufferedWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// InjectScript wraps a page handler. Successful HTML responses get the
// reload script appended to their <head>; anything else passes through
// untouched.
func InjectScript(opts Options, handlerFunc gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		orig := c.Writer
		w := &bufferedWriter{ResponseWriter: orig, body: &bytes.Buffer{}}
		c.Writer = w
		handlerFunc(c)
		c.Writer = orig

		out := w.body.Bytes()
		if w.Status() == http.StatusOK {
			page, err := inject(out, opts)
			if err != nil {
				slog.Warn("livereload script not injected", "path", c.Request.URL.Path, "err", err)
			} else {
				out = page
			}
		}
		if _, err := orig.Write(out); err != nil {
			slog.Error("could not write page", "err", err)
		}
	}
}

func inject(page []byte, opts Options) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	head := findHead(doc)
	if head == nil {
		return nil, errNoHead
	}

	var script bytes.Buffer
	err = scriptTemplate.Execute(&script, scriptConfig{
		Path:          opts.Path,
		RetryInterval: opts.RetryInterval.Milliseconds(),
		MaxRetries:    opts.MaxRetries,
	})
	if err != nil {
		return nil, err
	}
	head.AppendChild(&html.Node{
		Type:       html.ElementNode,
		DataAtom:   atom.Script,
		Data:       atom.Script.String(),
		FirstChild: &html.Node{Type: html.TextNode, Data: script.String()},
	})

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func findHead(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Head {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if h := findHead(child); h != nil {
			return h
		}
	}
	return nil
}

// Handler accepts the page's websocket and holds it until either side
// goes away.
func Handler(c *gin.Context) {
	socket, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("could not open livereload websocket", "err", err)
		return
	}
	defer socket.CloseNow()

	ctx := socket.CloseRead(c.Request.Context())
	<-ctx.Done()
}
