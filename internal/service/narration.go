package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// NarrationClient turns text into a playable audio reference. Every call
// yields a distinct reference.
type NarrationClient interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// maxTTSChunk is the longest text the Translate TTS endpoint accepts per request.
const maxTTSChunk = 200

// ttsParallelism bounds concurrent chunk requests for one narration.
const ttsParallelism = 4

// GTTSNarrator synthesises speech with the Google Translate TTS endpoint and
// writes one mp3 per call into a served directory.
type GTTSNarrator struct {
	dir       string
	urlPrefix string
	lang      string
	endpoint  string
	client    *http.Client
}

// NewGTTSNarrator creates a narrator. tld selects the accent, e.g. "co.in".
func NewGTTSNarrator(dir, urlPrefix, lang, tld string) *GTTSNarrator {
	return &GTTSNarrator{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		lang:      lang,
		endpoint:  fmt.Sprintf("https://translate.google.%s/translate_tts", tld),
		client:    &http.Client{},
	}
}

// AudioFileName returns a collision-free file name for a new recording.
func AudioFileName() string {
	return "speech_" + uuid.New().String() + ".mp3"
}

func (n *GTTSNarrator) Synthesize(ctx context.Context, text string) (string, error) {
	chunks := splitForTTS(text, maxTTSChunk)
	if len(chunks) == 0 {
		return "", ErrEmptyInput
	}

	// Chunks are fetched concurrently and written in order.
	parts := make([]bytes.Buffer, len(chunks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(ttsParallelism)
	for i, chunk := range chunks {
		eg.Go(func() error {
			if err := n.fetchChunk(egCtx, &parts[i], chunk, i, len(chunks)); err != nil {
				return fmt.Errorf("tts chunk %d/%d: %w", i+1, len(chunks), err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(n.dir, 0o755); err != nil {
		return "", err
	}
	name := AudioFileName()
	fullPath := filepath.Join(n.dir, name)
	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	for i := range parts {
		if _, err := parts[i].WriteTo(f); err != nil {
			f.Close()
			os.Remove(fullPath)
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return n.urlPrefix + "/" + name, nil
}

func (n *GTTSNarrator) fetchChunk(ctx context.Context, w io.Writer, chunk string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", n.lang)
	q.Set("q", chunk)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts returned status %d", resp.StatusCode)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// splitForTTS breaks text into pieces of at most limit runes, preferring
// word boundaries.
func splitForTTS(text string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		wl := len(runes)
		if wl == 0 {
			continue
		}
		if curLen > 0 && curLen+1+wl > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(string(runes))
		curLen += wl
	}
	flush()
	return chunks
}

// SilentNarrator produces references without audio, for running without
// network access to a TTS service.
type SilentNarrator struct {
	URLPrefix string
}

func (n SilentNarrator) Synthesize(_ context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return strings.TrimSuffix(n.URLPrefix, "/") + "/" + AudioFileName(), nil
}
