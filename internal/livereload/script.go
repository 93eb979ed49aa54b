package livereload

import "text/template"

type scriptConfig struct {
	Path          string
	RetryInterval int64
	MaxRetries    uint
}

const script = `
  const socketUrl = (location.protocol === "https:" ? "wss://" : "ws://") + location.host + "{{.Path}}";
  const retryInterval = {{.RetryInterval}};
  const maxRetries = {{.MaxRetries}};
  const ws = new WebSocket(socketUrl);
  ws.onclose = () => {
    let retries = 0;
    const reconnect = () => {
      if (++retries > maxRetries) {
        console.error("livereload: server did not come back");
        return;
      }
      const next = new WebSocket(socketUrl);
      next.onerror = () => setTimeout(reconnect, retryInterval);
      next.onopen = () => location.reload();
    };
    setTimeout(reconnect, retryInterval);
  };
`

var scriptTemplate = template.Must(template.New("livereload").Parse(script))
