package pipeline_test

import (
	"errors"
	"testing"

	"github.com/user/framecut/pkg/mocks"
	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

func TestOpenSource(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddFile("ok.mp4", nil)
	fs.AddFile("broken.mp4", nil)
	fs.AddFile("nofps.mp4", nil)

	opener := mocks.NewSourceOpener()
	opener.AddVideo("ok.mp4", mocks.Video{
		Info:   ports.StreamInfo{FrameRate: 30, Width: 4, Height: 4, FrameCount: 10, FrameCountKnown: true},
		Frames: 10,
	})
	opener.AddVideo("nofps.mp4", mocks.Video{Info: ports.StreamInfo{Width: 4, Height: 4}})

	src, err := pipeline.OpenSource(fs, opener, "ok.mp4")
	if err != nil {
		t.Fatalf("OpenSource failed: %v", err)
	}
	src.Close()

	tests := []struct {
		path string
		kind pipeline.ErrorKind
	}{
		{"missing.mp4", pipeline.KindSourceNotFound},
		{"broken.mp4", pipeline.KindSourceUnreadable},
		{"nofps.mp4", pipeline.KindSourceUnreadable},
	}
	for _, tt := range tests {
		_, err := pipeline.OpenSource(fs, opener, tt.path)
		if got := pipeline.KindOf(err); got != tt.kind {
			t.Errorf("OpenSource(%s) kind = %v, want %v (err: %v)", tt.path, got, tt.kind, err)
		}
	}

	// The zero-fps source is released after being rejected
	last := opener.Opened[len(opener.Opened)-1]
	if !last.Closed() {
		t.Error("rejected source was not closed")
	}
}

func TestOpenSourceStatError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.IsRegularFunc = func(path string) (bool, error) {
		return false, errors.New("permission denied")
	}

	_, err := pipeline.OpenSource(fs, mocks.NewSourceOpener(), "x.mp4")
	if !errors.Is(err, pipeline.ErrSourceNotFound) {
		t.Errorf("error = %v, want SourceNotFound", err)
	}
}
