package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
)

// SlotCategory classifies a registry slot index.
type SlotCategory int

const (
	SlotOrdinary  SlotCategory = iota // player save, index below QuicksaveIndex
	SlotQuicksave                     // QuicksaveIndex, never converted
	SlotAmbient                       // AmbientBaseIndex and above
)

func (c SlotCategory) String() string {
	switch c {
	case SlotOrdinary:
		return "ordinary"
	case SlotQuicksave:
		return "quicksave"
	case SlotAmbient:
		return "ambient"
	default:
		return "unknown"
	}
}

// Classify maps a slot index to its category.
func Classify(index int) SlotCategory {
	switch {
	case index >= AmbientBaseIndex:
		return SlotAmbient
	case index == QuicksaveIndex:
		return SlotQuicksave
	default:
		return SlotOrdinary
	}
}

// AmbientIndex returns the slot index of the n-th ambient save, counting from 0.
func AmbientIndex(n int) int {
	return AmbientBaseIndex + n
}

// SlotKey returns the registry key holding the scene text of a slot.
func SlotKey(index int) string {
	return "s" + strconv.Itoa(index)
}

// ScreenshotKey returns the registry key holding the base64 screenshot of a slot.
func ScreenshotKey(index int) string {
	return "ss" + strconv.Itoa(index)
}

// ParseSlotKey parses "s<n>" and "ss<n>" keys. screenshot reports which of
// the two shapes matched.
func ParseSlotKey(key string) (index int, screenshot bool, err error) {
	digits, ok := strings.CutPrefix(key, "s")
	if !ok {
		return 0, false, fmt.Errorf("%w: unexpected key %q", mmerrors.ErrInvalidSceneFormat, key)
	}
	if rest, ok := strings.CutPrefix(digits, "s"); ok {
		digits, screenshot = rest, true
	}

	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, false, fmt.Errorf("%w: unexpected key %q", mmerrors.ErrInvalidSceneFormat, key)
	}

	index, err = strconv.Atoi(digits)
	if err != nil {
		return 0, false, fmt.Errorf("%w: key %q: %v", mmerrors.ErrInvalidSceneFormat, key, err)
	}
	return index, screenshot, nil
}

// ContainerName returns the file name for a slot: s<index>_<YYYYMMDDHHmm><ext>.
func ContainerName(index int, saved time.Time, ext string) string {
	return fmt.Sprintf("s%d_%s%s", index, saved.Format("200601021504"), ext)
}
