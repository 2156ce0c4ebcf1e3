// Package synth produces the synthetic content carried by generated
// traffic: hostnames, page resource lists, sized payload bodies and the
// canned dialogue of the intrusion profile. Everything is derived from the
// *rand.Rand passed in, so the output is as deterministic as its stream.
package synth

import (
	"bytes"
	"fmt"
	"math/rand"
)

// Content kinds understood by Body and ContentType.
const (
	KindHTML = "html"
	KindCSS  = "css"
	KindJS   = "js"
	KindJSON = "json"
	KindPNG  = "png"
	KindBin  = "bin"
)

var domainWords = []string{
	"alpine", "quartz", "harbor", "comet", "lantern", "mosaic", "pioneer",
	"summit", "voyage", "zephyr", "copper", "meadow", "beacon", "orchid",
	"timber", "cascade", "ember", "garnet", "willow", "drift",
}

var domainTLDs = []string{"com", "net", "org", "io", "biz"}

// Domain returns a synthetic hostname such as "quartz-harbor.net" or
// "cdn.alpine-drift.io".
func Domain(r *rand.Rand) string {
	a := domainWords[r.Intn(len(domainWords))]
	b := domainWords[r.Intn(len(domainWords))]
	name := fmt.Sprintf("%s-%s.%s", a, b, domainTLDs[r.Intn(len(domainTLDs))])
	switch r.Intn(4) {
	case 0:
		return "www." + name
	case 1:
		return "cdn." + name
	}
	return name
}

// Resource is one fetchable asset of a synthetic page visit.
type Resource struct {
	Path string
	Kind string
	Size int
}

// Page returns the asset list of one synthetic page visit: the document
// itself, one or two stylesheets, up to three scripts and sometimes a JSON
// payload.
func Page(r *rand.Rand) []Resource {
	resources := []Resource{{Path: "/", Kind: KindHTML, Size: 2000 + r.Intn(30000)}}
	for i, n := 0, 1+r.Intn(2); i < n; i++ {
		resources = append(resources, Resource{
			Path: fmt.Sprintf("/static/site-%d.css", i+1),
			Kind: KindCSS,
			Size: 1000 + r.Intn(20000),
		})
	}
	for i, n := 0, 1+r.Intn(3); i < n; i++ {
		resources = append(resources, Resource{
			Path: fmt.Sprintf("/static/app-%d.js", i+1),
			Kind: KindJS,
			Size: 5000 + r.Intn(60000),
		})
	}
	if r.Intn(3) == 0 {
		resources = append(resources, Resource{
			Path: "/api/session",
			Kind: KindJSON,
			Size: 200 + r.Intn(2000),
		})
	}
	return resources
}

// ContentType maps a resource kind to its HTTP content type.
func ContentType(kind string) (string, error) {
	switch kind {
	case KindHTML:
		return "text/html; charset=utf-8", nil
	case KindCSS:
		return "text/css", nil
	case KindJS:
		return "application/javascript", nil
	case KindJSON:
		return "application/json", nil
	case KindPNG:
		return "image/png", nil
	case KindBin:
		return "application/octet-stream", nil
	}
	return "", fmt.Errorf("unknown content kind %q", kind)
}

// AssetPath returns a plausible request path for the i-th content item of a
// visit whose items carry no explicit path.
func AssetPath(r *rand.Rand, kind string, i int) string {
	if i == 0 && kind == KindHTML {
		return "/"
	}
	return fmt.Sprintf("/assets/%04x-%02d.%s", r.Intn(1<<16), i, kind)
}

// PayloadPath returns the download path of the n-th staged payload.
func PayloadPath(r *rand.Rand, n int) string {
	return fmt.Sprintf("/files/pkg-%04x-%d.bin", r.Intn(1<<16), n+1)
}

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// Body returns exactly size bytes of plausible content for the kind.
func Body(r *rand.Rand, kind string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("body size must be positive, got %d", size)
	}
	switch kind {
	case KindHTML:
		return textBody(r, size, htmlFragment), nil
	case KindCSS:
		return textBody(r, size, cssFragment), nil
	case KindJS:
		return textBody(r, size, jsFragment), nil
	case KindJSON:
		return textBody(r, size, jsonFragment), nil
	case KindPNG:
		body := make([]byte, size)
		n := copy(body, pngSignature)
		r.Read(body[n:])
		return body, nil
	case KindBin:
		body := make([]byte, size)
		r.Read(body)
		return body, nil
	}
	return nil, fmt.Errorf("unknown content kind %q", kind)
}

// textBody repeats generated fragments until the buffer covers size, then
// truncates to exactly size bytes.
func textBody(r *rand.Rand, size int, fragment func(*rand.Rand) string) []byte {
	var buf bytes.Buffer
	for buf.Len() < size {
		buf.WriteString(fragment(r))
	}
	return buf.Bytes()[:size]
}

func htmlFragment(r *rand.Rand) string {
	if r.Intn(8) == 0 {
		return fmt.Sprintf("<h2>%s %s</h2>\n", pick(r), pick(r))
	}
	return fmt.Sprintf("<p>%s %s %s %s %s.</p>\n", pick(r), pick(r), pick(r), pick(r), pick(r))
}

func cssFragment(r *rand.Rand) string {
	return fmt.Sprintf(".%s-%d { margin: %dpx; padding: %dpx; color: #%06x; }\n",
		pick(r), r.Intn(100), r.Intn(48), r.Intn(32), r.Intn(1<<24))
}

func jsFragment(r *rand.Rand) string {
	n := r.Intn(1000)
	return fmt.Sprintf("var %s%d = %d;\nfunction get%d() { return %s%d + %d; }\n",
		pick(r), n, r.Intn(10000), n, pick(r), n, r.Intn(100))
}

func jsonFragment(r *rand.Rand) string {
	return fmt.Sprintf("{\"id\":%d,\"name\":\"%s-%s\",\"active\":%t},",
		r.Intn(100000), pick(r), pick(r), r.Intn(2) == 0)
}

func pick(r *rand.Rand) string {
	return domainWords[r.Intn(len(domainWords))]
}

// CredentialDialogue returns the clear-text exchange of the credential
// theft phase: client lines paired with server replies. An empty side means
// that turn stays silent.
func CredentialDialogue() [][2]string {
	return [][2]string{
		{"AUTH maint 9f2c7e\r\n", "OK session 5d41\r\n"},
		{"GET passwd\r\n", "BEGIN 742 bytes\r\n"},
		{"", "root:x:0:0:root:/root:/bin/bash\nbackup:x:34:34:backup:/var/backups:/usr/sbin/nologin\n"},
		{"GET shadow\r\n", "BEGIN 518 bytes\r\n"},
		{"", "root:$6$rqe1wPJq$kT1x:19821:0:99999:7:::\n"},
		{"BYE\r\n", "OK closing\r\n"},
	}
}

// ExecDialogue returns the clear-text exchange of the remote execution
// phase.
func ExecDialogue() [][2]string {
	return [][2]string{
		{"AUTH maint 9f2c7e\r\n", "OK session 81aa\r\n"},
		{"RUN id\r\n", "uid=0(root) gid=0(root) groups=0(root)\r\n"},
		{"RUN uname -a\r\n", "Linux ws-secure-12 5.15.0-97-generic x86_64 GNU/Linux\r\n"},
		{"RUN systemctl stop auditd\r\n", "OK\r\n"},
		{"BYE\r\n", "OK closing\r\n"},
	}
}
