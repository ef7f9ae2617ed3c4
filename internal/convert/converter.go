// Package convert moves scene slots between a MultipleMaids registry and
// individual scene containers.
package convert

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/mmconvert/internal/config"
	"github.com/provide-io/mmconvert/internal/registry"
	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
	"github.com/provide-io/mmconvert/pkg/mmsave/format"
)

// Converter runs one conversion at a time.
type Converter struct {
	cfg    *config.Config
	codec  *format.Codec
	logger hclog.Logger
}

// New creates a converter. A nil logger discards output.
func New(cfg *config.Config, logger hclog.Logger) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{
		cfg:    cfg,
		codec:  format.NewCodec(logger.Named("codec")),
		logger: logger,
	}
}

// RegistryToContainers writes one container per ordinary or ambient slot of
// the registry at path. Slots without scene text are skipped; a malformed
// key, timestamp, terminator or screenshot aborts the run.
func (c *Converter) RegistryToContainers(path string) (*Report, error) {
	report := &Report{}

	reg, err := registry.Load(path)
	if err != nil {
		return report, err
	}
	if !reg.HasSection(registry.SceneSection) {
		return report, fmt.Errorf("%w: %q section not found; is %s a MultipleMaids config?",
			mmerrors.ErrInvalidSceneFormat, registry.SceneSection, filepath.Base(path))
	}

	c.logger.Info("📒 Found registry to convert", "file", filepath.Base(path))

	seen := make(map[int]struct{})
	for _, key := range reg.Keys(registry.SceneSection) {
		index, _, err := format.ParseSlotKey(key)
		if err != nil {
			return report, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if _, ok := seen[index]; ok {
			continue
		}
		seen[index] = struct{}{}

		res, err := c.convertSlot(reg, index)
		report.add(res)
		if err != nil {
			return report, fmt.Errorf("slot %s: %w", format.SlotKey(index), err)
		}
	}

	return report, nil
}

func (c *Converter) convertSlot(reg *registry.Registry, index int) (Result, error) {
	key := format.SlotKey(index)
	category := format.Classify(index)
	logger := c.logger.With("slot", key)
	res := Result{Name: key, Index: index, Category: category}

	if category == format.SlotQuicksave {
		logger.Info("⏭️ Quick save found, skipping")
		return skipped(res, "quick save"), nil
	}

	scene, _ := reg.Get(registry.SceneSection, key)
	if scene == "" {
		logger.Info("⏭️ No scene found, skipping")
		return skipped(res, "no scene"), nil
	}

	saved, err := format.ParseSceneTime(scene)
	if err != nil {
		return failed(res, err), err
	}

	var screenshot []byte
	if encoded, _ := reg.Get(registry.SceneSection, format.ScreenshotKey(index)); encoded != "" {
		screenshot, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			err = fmt.Errorf("%w: screenshot is not base64: %v", mmerrors.ErrInvalidSceneFormat, err)
			return failed(res, err), err
		}
		logger.Debug("🖼️ Found screenshot", "size", humanize.Bytes(uint64(len(screenshot))))
	} else {
		logger.Info("🖼️ No screenshot found, using placeholder")
	}

	dir := c.cfg.SceneOutputDir()
	if category == format.SlotAmbient {
		dir = c.cfg.AmbientOutputDir()
	}
	out := filepath.Join(dir, format.ContainerName(index, saved, c.cfg.ContainerExt))

	ct := &format.Container{
		Scene:      scene,
		Screenshot: screenshot,
		Ambient:    category == format.SlotAmbient,
	}
	size, err := c.writeContainer(out, ct, saved)
	if err != nil {
		if errors.Is(err, mmerrors.ErrNotAContainer) {
			err = fmt.Errorf("%w: screenshot: %v", mmerrors.ErrInvalidSceneFormat, err)
		}
		return failed(res, err), err
	}

	logger.Info("✅ Converted",
		"category", category,
		"output", out,
		"size", humanize.Bytes(uint64(size)),
	)

	res.Status = StatusConverted
	res.Output = out
	res.Size = size
	return res, nil
}

// writeContainer encodes ct next to path and renames it into place, then
// stamps the file with the scene's save time.
func (c *Converter) writeContainer(path string, ct *format.Container, saved time.Time) (size int64, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mmconvert-*"+c.cfg.ContainerExt)
	if err != nil {
		return 0, fmt.Errorf("create container: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = c.codec.Encode(w, ct); err != nil {
		tmp.Close()
		return 0, err
	}
	if err = w.Flush(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write container: %w", err)
	}

	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("close container: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replace container: %w", err)
	}
	if err := os.Chtimes(path, saved, saved); err != nil {
		c.logger.Warn("⚠️ Could not set file time", "output", path, "error", err)
	}

	return info.Size(), nil
}

// ContainersToRegistry decodes every container in paths into a new registry
// saved at the configured registry path. Unreadable inputs are skipped. The
// run fails with ErrNoOrdinarySlots when no ordinary save was found, and the
// registry is then not written.
func (c *Converter) ContainersToRegistry(paths []string) (*Report, error) {
	report := &Report{}
	reg := registry.New()
	reg.Set(registry.ConfigSection, registry.SceneMaxKey, "0")

	ordinary, ambient := 0, 0
	for _, path := range paths {
		name := filepath.Base(path)
		logger := c.logger.With("file", name)
		res := Result{Name: name, Index: -1}

		ct, err := c.readContainer(path)
		if err == nil && strings.ContainsAny(ct.Scene, "\r\n") {
			err = fmt.Errorf("%w: scene spans several lines", mmerrors.ErrInvalidSceneFormat)
		}
		if err != nil {
			logger.Warn("⏭️ Skipping", "reason", err)
			report.add(skipped(res, err.Error()))
			continue
		}

		if ct.Ambient {
			res.Index = format.AmbientIndex(ambient)
			ambient++
			reg.Set(registry.AmbientSection, "kankyo"+strconv.Itoa(ambient), strconv.Itoa(res.Index))
		} else {
			ordinary++
			res.Index = ordinary
		}
		res.Category = format.Classify(res.Index)

		reg.Set(registry.SceneSection, format.SlotKey(res.Index), ct.Scene)
		reg.Set(registry.SceneSection, format.ScreenshotKey(res.Index), base64.StdEncoding.EncodeToString(ct.Screenshot))

		logger.Info("✅ Converted",
			"slot", format.SlotKey(res.Index),
			"category", res.Category,
			"screenshot", humanize.Bytes(uint64(len(ct.Screenshot))),
		)

		res.Status = StatusConverted
		res.Size = int64(len(ct.Screenshot))
		report.add(res)
	}

	report.Summary = Summarize(ordinary, ambient, c.cfg.SceneRound, c.cfg.AmbientRound, c.cfg.AmbientMin)
	reg.Set(registry.ConfigSection, registry.SceneMaxKey, strconv.Itoa(report.Summary.SceneMax))
	reg.Set(registry.ConfigSection, registry.AmbientMaxKey, strconv.Itoa(report.Summary.AmbientMax))

	if ordinary == 0 {
		return report, fmt.Errorf("%w: %d ambient slot(s) found", mmerrors.ErrNoOrdinarySlots, ambient)
	}

	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("create output dir: %w", err)
	}
	out := c.cfg.RegistryPath()
	if err := reg.Save(out); err != nil {
		return report, err
	}
	report.Registry = out

	c.logger.Info("📒 Wrote registry",
		"output", out,
		"scenes", ordinary,
		"kankyo", ambient,
		"scene_max", report.Summary.SceneMax,
		"kankyo_max", report.Summary.AmbientMax,
	)

	return report, nil
}

func (c *Converter) readContainer(path string) (*format.Container, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: does not exist", mmerrors.ErrMissingInput)
		}
		return nil, err
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, c.cfg.ContainerExt) {
		return nil, fmt.Errorf("%w: extension %q", mmerrors.ErrNotAContainer, ext)
	}
	return c.codec.DecodeFile(path)
}

func skipped(res Result, reason string) Result {
	res.Status = StatusSkipped
	res.Reason = reason
	return res
}

func failed(res Result, err error) Result {
	res.Status = StatusFailed
	res.Reason = err.Error()
	return res
}
