package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"

	mmerrors "github.com/provide-io/mmconvert/pkg/mmsave/errors"
	"github.com/provide-io/mmconvert/pkg/mmsave/operations"
	"github.com/provide-io/mmconvert/pkg/mmsave/operations/compress"
	"github.com/provide-io/mmconvert/pkg/mmsave/operations/text"
)

// Container is the decoded content of a scene container file.
type Container struct {
	Scene      string // scene descriptor text
	Screenshot []byte // PNG bytes up to and including the IEND trailer
	Ambient    bool   // carries the KANKYO tag
}

// Codec reads and writes scene containers
type Codec struct {
	utf16  *text.UTF16Operation
	lzma   *compress.LZMAOperation
	logger hclog.Logger
}

// NewCodec creates a codec. A nil logger discards output.
func NewCodec(logger hclog.Logger) *Codec {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Codec{
		utf16:  text.NewUTF16Operation(),
		lzma:   compress.NewLZMAOperation(),
		logger: logger,
	}
}

// Decode reads a container from the start of r.
func (c *Codec) Decode(r io.ReadSeeker) (*Container, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	header := make([]byte, ImageHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", mmerrors.ErrNotAContainer, err)
	}
	if !bytes.Equal(header, ImageHeader) {
		return nil, fmt.Errorf("%w: bad header % x", mmerrors.ErrNotAContainer, header)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	imageEnd, err := FindImageEnd(r)
	if err != nil {
		return nil, err
	}

	c.logger.Trace("🔍 Found image end", "offset", imageEnd)

	if _, err := r.Seek(imageEnd, io.SeekStart); err != nil {
		return nil, err
	}

	ambient := false
	tag := make([]byte, AmbientTagSize)
	if _, err := io.ReadFull(r, tag); err == nil && bytes.Equal(tag, AmbientTag) {
		ambient = true
	} else if _, err := r.Seek(imageEnd, io.SeekStart); err != nil {
		return nil, err
	}

	payload, err := c.lzma.Decode(r)
	if err != nil {
		return nil, err
	}
	scene, err := c.utf16.Reverse(payload)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	screenshot := make([]byte, imageEnd)
	if _, err := io.ReadFull(r, screenshot); err != nil {
		return nil, fmt.Errorf("reading screenshot: %w", err)
	}

	c.logger.Debug("✅ Decoded container",
		"screenshot", len(screenshot),
		"payload", len(payload),
		"ambient", ambient,
	)

	return &Container{
		Scene:      string(scene),
		Screenshot: screenshot,
		Ambient:    ambient,
	}, nil
}

// DecodeFile opens path and decodes it as a container.
func (c *Codec) DecodeFile(path string) (*Container, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", mmerrors.ErrMissingInput, path)
		}
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", mmerrors.ErrNotAContainer, path)
	}

	return c.Decode(file)
}

// Encode writes ct to w. An empty screenshot is replaced by DefaultImage.
// The screenshot must be a single image segment ending with the IEND
// trailer; the codec never synthesizes the header or end marker.
func (c *Codec) Encode(w io.Writer, ct *Container) error {
	screenshot := ct.Screenshot
	if len(screenshot) == 0 {
		screenshot = defaultImage
	}
	if err := ValidateScreenshot(screenshot); err != nil {
		return err
	}

	chain := []operations.Operation{c.utf16, c.lzma}
	payload, err := operations.ApplyChain([]byte(ct.Scene), chain...)
	if err != nil {
		return err
	}

	if _, err := w.Write(screenshot); err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}
	if ct.Ambient {
		if _, err := w.Write(AmbientTag); err != nil {
			return fmt.Errorf("writing ambient tag: %w", err)
		}
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}

	c.logger.Debug("✅ Encoded container",
		"operations", operations.ChainString(chain...),
		"screenshot", len(screenshot),
		"payload", len(payload),
		"ambient", ct.Ambient,
	)

	return nil
}

// ValidateScreenshot checks that b starts with the image header and that its
// first end marker and trailer finish exactly at the end of b.
func ValidateScreenshot(b []byte) error {
	if !bytes.HasPrefix(b, ImageHeader) {
		return fmt.Errorf("%w: screenshot lacks image header", mmerrors.ErrNotAContainer)
	}

	end, err := FindImageEnd(bytes.NewReader(b))
	if err != nil {
		return err
	}
	if end != int64(len(b)) {
		return fmt.Errorf("%w: screenshot has %d bytes after image end", mmerrors.ErrNotAContainer, int64(len(b))-end)
	}
	return nil
}
