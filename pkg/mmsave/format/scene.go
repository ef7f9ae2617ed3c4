package format

import (
	"fmt"
	"strings"
	"time"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
)

const (
	SceneFieldSep   = ","
	SceneTerminator = ";"
)

// Layouts accepted for the leading timestamp field.
var sceneTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02T15:04:05",
	"2006/1/2 15:04:05",
	"2006-1-2 15:04:05",
	"2006/1/2 15:04",
	"2006-1-2 15:04",
	"1/2/2006 15:04:05",
}

// ParseSceneTime extracts the save time from the first field of a scene and
// checks that the last field carries the terminator. The time is read in
// the local zone.
func ParseSceneTime(scene string) (time.Time, error) {
	fields := strings.Split(scene, SceneFieldSep)

	last := strings.TrimRight(fields[len(fields)-1], " \t\r\n")
	if !strings.HasSuffix(last, SceneTerminator) {
		return time.Time{}, fmt.Errorf("%w: scene is not terminated by %q", mmerrors.ErrInvalidSceneFormat, SceneTerminator)
	}

	stamp := strings.TrimSpace(fields[0])
	for _, layout := range sceneTimeLayouts {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", mmerrors.ErrInvalidSceneFormat, stamp)
}
