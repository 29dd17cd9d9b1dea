package audio

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/Ajinqya/sketchloop/internal/domain"
)

// decoded is the result of fully decoding a media file: mono float64 PCM plus
// source metadata.
type decoded struct {
	samples []float64
	rate    int
	info    domain.MediaInfo
}

// decodeFile opens and fully decodes a media file, downmixing to mono.
// The format is picked by file extension; mp3, wav, flac and ogg/oga are
// supported.
func decodeFile(path string) (*decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewAudioLoadError("open", path, err)
	}
	defer f.Close()

	info := domain.MediaInfo{Path: path}

	// Tags are optional; a file without them still plays.
	if meta, tagErr := tag.ReadFrom(f); tagErr == nil {
		info.Title = meta.Title()
		info.Artist = meta.Artist()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, domain.NewAudioLoadError("open", path, err)
	}

	streamer, format, err := decodeStream(f, path)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	samples, err := downmix(streamer)
	if err != nil {
		return nil, domain.NewAudioLoadError("decode", path, err)
	}

	rate := int(format.SampleRate)
	info.SampleRate = rate
	info.Duration = time.Duration(float64(len(samples)) / float64(rate) * float64(time.Second))

	return &decoded{
		samples: samples,
		rate:    rate,
		info:    info,
	}, nil
}

// decodeStream picks a beep decoder by extension.
func decodeStream(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	default:
		return nil, beep.Format{}, domain.NewAudioLoadError("decode", path, domain.ErrUnsupportedFormat)
	}

	if err != nil {
		return nil, beep.Format{}, domain.NewAudioLoadError("decode", path, err)
	}
	return streamer, format, nil
}

// downmix drains a streamer into a mono buffer, averaging the two channels.
func downmix(streamer beep.Streamer) ([]float64, error) {
	var mono []float64

	buf := make([][2]float64, 2048)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			mono = append(mono, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}

	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return mono, nil
}
