// Package registry reads and writes the MultipleMaids INI file that holds
// every scene slot, its screenshot and the slot count settings.
//
// Parsing goes through ini.v1. Writing does not: values are emitted as raw
// key=value lines because the game reads them verbatim, and ini.v1 would
// wrap some scene texts in quotes.
package registry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/ini.v1"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
)

// Section and key names used by the game
const (
	SceneSection   = "scene"
	AmbientSection = "kankyo"
	ConfigSection  = "config"

	SceneMaxKey   = "scene_max"
	AmbientMaxKey = "kankyo_max"
)

// Scene values are opaque: ';' and '#' are data, not comments, and quotes
// and trailing backslashes must survive untouched.
var loadOptions = ini.LoadOptions{
	IgnoreContinuation:      true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	KeyValueDelimiters:      "=",
}

// Registry is an in-memory INI document.
type Registry struct {
	file *ini.File
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{file: ini.Empty(loadOptions)}
}

// Load parses the registry at path.
func Load(path string) (*Registry, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", mmerrors.ErrMissingInput, path)
		}
		return nil, err
	}

	file, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", filepath.Base(path), err)
	}
	return &Registry{file: file}, nil
}

// HasSection reports whether section exists.
func (r *Registry) HasSection(section string) bool {
	_, err := r.file.GetSection(section)
	return err == nil
}

// Get returns the value of key in section.
func (r *Registry) Get(section, key string) (string, bool) {
	sec, err := r.file.GetSection(section)
	if err != nil {
		return "", false
	}
	k, err := sec.GetKey(key)
	if err != nil {
		return "", false
	}
	return k.Value(), true
}

// Set stores value under key in section, creating both as needed.
func (r *Registry) Set(section, key, value string) {
	r.file.Section(section).Key(key).SetValue(value)
}

// Keys returns the key names of section in file order.
func (r *Registry) Keys(section string) []string {
	sec, err := r.file.GetSection(section)
	if err != nil {
		return nil
	}
	return sec.KeyStrings()
}

// WriteTo writes every non-empty section as "[name]" followed by raw
// key=value lines, in insertion order. Values holding a line break cannot be
// represented and fail with ErrInvalidSceneFormat before anything is written.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	sections := r.file.Sections()
	for _, sec := range sections {
		for _, k := range sec.Keys() {
			if strings.ContainsAny(k.Value(), "\r\n") {
				return 0, fmt.Errorf("%w: [%s] %s contains a line break",
					mmerrors.ErrInvalidSceneFormat, sec.Name(), k.Name())
			}
		}
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	first := true
	for _, sec := range sections {
		keys := sec.Keys()
		if len(keys) == 0 {
			continue
		}
		if !first {
			bw.WriteString("\n")
		}
		first = false

		if sec.Name() != ini.DefaultSection {
			fmt.Fprintf(bw, "[%s]\n", sec.Name())
		}
		for _, k := range keys {
			bw.WriteString(k.Name())
			bw.WriteByte('=')
			bw.WriteString(k.Value())
			bw.WriteByte('\n')
		}
	}

	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Save writes the registry to path. The write goes to a temporary file
// that replaces path once complete, under an exclusive lock on path.lock.
func (r *Registry) Save(path string) (err error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock registry: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", mmerrors.ErrRegistryLocked, path)
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("unlock registry: %w", uerr)
		}
		_ = os.Remove(lock.Path())
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mmconvert-*.ini")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = r.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write registry: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close registry: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}
