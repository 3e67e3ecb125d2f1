package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrSourceDisabled   = errors.New("capture source is disabled")
	ErrChecksumMismatch = errors.New("capture source checksum mismatch")
	ErrStreamClosed     = errors.New("capture stream is closed")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one external capture-source plugin binary.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("source version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("source binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("source sha256 must be lowercase 64-char hex")
	}
	return nil
}

// Metadata is what a capture source reports about itself at handshake time.
type Metadata struct {
	Name       string
	Version    string
	SampleRate int
	FFTSize    int
}
