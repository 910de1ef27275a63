// Package contributors retrieves the upstream contributor list and extracts
// the translators credited in the generated tree.
package contributors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/fsutil"
	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

// TranslatorsFile is written under the generated directory.
const TranslatorsFile = "translators.json"

// TranslationContribution marks a contributor as a translator.
const TranslationContribution = "translation"

const maxResponseBytes = 5 * 1024 * 1024

// NewHTTPClient creates an HTTP client with safe defaults.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

type document struct {
	Contributors []json.RawMessage `json:"contributors"`
}

type contributions struct {
	Contributions []string `json:"contributions"`
}

// Translators filters an all-contributors document down to the entries whose
// contributions include "translation". Entries are kept verbatim.
func Translators(data []byte) ([]json.RawMessage, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode contributors: %w", err)
	}
	out := make([]json.RawMessage, 0, len(doc.Contributors))
	for _, raw := range doc.Contributors {
		var c contributions
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode contributor: %w", err)
		}
		if slices.Contains(c.Contributions, TranslationContribution) {
			out = append(out, raw)
		}
	}
	return out, nil
}

// Fetch downloads the contributor document at url.
func Fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, derrors.Network(url, fmt.Errorf("build request: %w", err))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, derrors.Network(url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, derrors.Network(url, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	limited := io.LimitReader(resp.Body, maxResponseBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, derrors.Network(url, fmt.Errorf("read response: %w", err))
	}
	if len(data) > maxResponseBytes {
		return nil, derrors.Network(url, errors.New("response too large"))
	}
	return data, nil
}

// FetchTranslators downloads the contributor document at url and returns the translators.
func FetchTranslators(ctx context.Context, url string, client *http.Client) ([]json.RawMessage, error) {
	data, err := Fetch(ctx, url, client)
	if err != nil {
		return nil, err
	}
	translators, err := Translators(data)
	if err != nil {
		return nil, derrors.Network(url, err)
	}
	return translators, nil
}

// WriteTranslators writes translators to path as a 4-space indented JSON array.
func WriteTranslators(path string, translators []json.RawMessage) error {
	if translators == nil {
		translators = []json.RawMessage{}
	}
	out, err := jsgen.JSON(translators, "    ")
	if err != nil {
		return derrors.InternalError("encode translators", err)
	}
	if err := fsutil.WriteFile(path, out); err != nil {
		return derrors.FileSystem("write", path, err)
	}
	return nil
}
