package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/user/framecut/pkg/ports"
)

// OpenSource checks that path names a regular file and opens it for
// decoding. Failures are classified as SourceNotFound or SourceUnreadable.
// The returned source reports positive dimensions and frame rate.
func OpenSource(fs ports.FileSystem, opener ports.SourceOpener, path string) (ports.VideoSource, error) {
	ok, err := fs.IsRegular(path)
	if err != nil {
		return nil, NewError(KindSourceNotFound, path, err)
	}
	if !ok {
		return nil, NewError(KindSourceNotFound, path, errors.New("no such file"))
	}

	src, err := opener.Open(path)
	if err != nil {
		return nil, NewError(KindSourceUnreadable, path, err)
	}

	info := src.Info()
	if info.Width <= 0 || info.Height <= 0 || !(info.FrameRate > 0) || math.IsInf(info.FrameRate, 0) {
		src.Close()
		return nil, NewError(KindSourceUnreadable, path,
			fmt.Errorf("invalid stream %dx%d @ %v fps", info.Width, info.Height, info.FrameRate))
	}
	return src, nil
}
