package domain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrChannelDisabled  = errors.New("channel is disabled")
	ErrChecksumMismatch = errors.New("channel checksum mismatch")
	ErrChannelTimeout   = errors.New("channel timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one out-of-process notification channel. Channels
// are external binaries spoken to over the plugin protocol; the core
// only ever launches binaries whose checksum matches.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("channel name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("channel version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("channel binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("channel sha256 must be lowercase 64-char hex")
	}
	return nil
}

// Metadata is what a channel reports about itself at handshake time.
type Metadata struct {
	Name    string
	Version string
}
