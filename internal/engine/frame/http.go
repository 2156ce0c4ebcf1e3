package frame

import (
	"bytes"
	"fmt"
	"time"

	"Go2NetForge/internal/model"
)

const (
	httpUserAgent    = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	httpServerBanner = "nginx/1.24.0"
)

// HTTPGet builds the request segment answering prev, asking for uri on
// host. Pass the peer's last frame, typically the SYN|ACK for the first
// request or the previous response afterwards.
func HTTPGet(prev *model.Frame, host, uri string, ts time.Time) (*model.Frame, error) {
	if host == "" {
		return nil, fmt.Errorf("http: host is required")
	}
	if uri == "" {
		uri = "/"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "GET %s HTTP/1.1\r\n", uri)
	fmt.Fprintf(&b, "Host: %s\r\n", host)
	fmt.Fprintf(&b, "User-Agent: %s\r\n", httpUserAgent)
	b.WriteString("Accept: */*\r\n")
	b.WriteString("Connection: keep-alive\r\n\r\n")
	return AppendSegment(prev, b.Bytes(), model.FlagPSH|model.FlagACK, ts)
}

// HTTPResponse builds the 200 response answering prev. Content-Length is
// always the exact body length.
func HTTPResponse(prev *model.Frame, contentType string, body []byte, ts time.Time) (*model.Frame, error) {
	if contentType == "" {
		return nil, fmt.Errorf("http: content type is required")
	}
	var b bytes.Buffer
	b.WriteString("HTTP/1.1 200 OK\r\n")
	fmt.Fprintf(&b, "Server: %s\r\n", httpServerBanner)
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	b.WriteString("Connection: keep-alive\r\n\r\n")
	b.Write(body)
	return AppendSegment(prev, b.Bytes(), model.FlagPSH|model.FlagACK, ts)
}
