package synth

import (
	"bytes"
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

func TestBodySizes(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	kinds := []string{KindHTML, KindCSS, KindJS, KindJSON, KindPNG, KindBin}

	// 1. Every kind fills the requested size exactly.
	for _, kind := range kinds {
		for _, size := range []int{1, 64, 777, 30000} {
			body, err := Body(r, kind, size)
			if err != nil {
				t.Fatalf("Body(%s, %d) failed: %v", kind, size, err)
			}
			if len(body) != size {
				t.Errorf("Body(%s, %d) returned %d bytes", kind, size, len(body))
			}
		}
	}

	// 2. PNG bodies start with the PNG signature.
	body, err := Body(r, KindPNG, 512)
	if err != nil {
		t.Fatalf("Body(png) failed: %v", err)
	}
	if !bytes.HasPrefix(body, pngSignature) {
		t.Errorf("PNG body does not start with the PNG signature: % x", body[:8])
	}

	// 3. Invalid arguments are rejected.
	if _, err := Body(r, KindHTML, 0); err == nil {
		t.Errorf("Expected an error for size 0")
	}
	if _, err := Body(r, "exe", 100); err == nil {
		t.Errorf("Expected an error for an unknown kind")
	}
}

func TestBodyDeterminism(t *testing.T) {
	a, _ := Body(rand.New(rand.NewSource(9)), KindBin, 4096)
	b, _ := Body(rand.New(rand.NewSource(9)), KindBin, 4096)
	if !bytes.Equal(a, b) {
		t.Errorf("Bodies from identical streams differ")
	}
}

func TestContentType(t *testing.T) {
	for _, kind := range []string{KindHTML, KindCSS, KindJS, KindJSON, KindPNG, KindBin} {
		ct, err := ContentType(kind)
		if err != nil {
			t.Fatalf("ContentType(%s) failed: %v", kind, err)
		}
		if ct == "" {
			t.Errorf("ContentType(%s) is empty", kind)
		}
	}
	if _, err := ContentType("exe"); err == nil {
		t.Errorf("Expected an error for an unknown kind")
	}
}

func TestDomainShape(t *testing.T) {
	pattern := regexp.MustCompile(`^((www|cdn)\.)?[a-z]+-[a-z]+\.(com|net|org|io|biz)$`)
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		d := Domain(r)
		if !pattern.MatchString(d) {
			t.Fatalf("Domain %q does not look like a hostname", d)
		}
	}
}

func TestPageShape(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		page := Page(r)

		// The document always comes first.
		if page[0].Path != "/" || page[0].Kind != KindHTML {
			t.Fatalf("First resource is %+v, expected the document", page[0])
		}
		if len(page) < 3 || len(page) > 7 {
			t.Errorf("Page has %d resources, expected 3 to 7", len(page))
		}
		for _, res := range page {
			if res.Size <= 0 {
				t.Errorf("Resource %s has size %d", res.Path, res.Size)
			}
			if _, err := ContentType(res.Kind); err != nil {
				t.Errorf("Resource %s has invalid kind %q", res.Path, res.Kind)
			}
		}
	}
}

func TestPaths(t *testing.T) {
	r := rand.New(rand.NewSource(6))

	if p := AssetPath(r, KindHTML, 0); p != "/" {
		t.Errorf("Expected the first HTML asset path to be /, got %q", p)
	}
	if p := AssetPath(r, KindPNG, 2); !strings.HasPrefix(p, "/assets/") || !strings.HasSuffix(p, ".png") {
		t.Errorf("Unexpected asset path %q", p)
	}
	if p := PayloadPath(r, 0); !strings.HasPrefix(p, "/files/pkg-") || !strings.HasSuffix(p, "-1.bin") {
		t.Errorf("Unexpected payload path %q", p)
	}
}

func TestDialogues(t *testing.T) {
	cred := CredentialDialogue()
	if len(cred) == 0 || !strings.HasPrefix(cred[0][0], "AUTH ") {
		t.Errorf("Credential dialogue does not open with an AUTH line")
	}
	exec := ExecDialogue()
	for i, pair := range exec {
		if pair[0] == "" || pair[1] == "" {
			t.Errorf("Execution dialogue turn %d has a silent side", i)
		}
	}
}
