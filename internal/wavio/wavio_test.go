package wavio

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 48000

// writeIQWAV writes interleaved I/Q values as a 16-bit WAV with the given
// channel count.
func writeIQWAV(t *testing.T, path string, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	enc := wav.NewEncoder(f, testRate, bitDepth, channels, pcmFormat)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
}

func TestReader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iq.wav")

	// More frames than one decoder call returns
	data := make([]int, (readFrames+123)*IQChannels)
	for i := range data {
		data[i] = (i*37)%65536 - 32768
	}
	writeIQWAV(t, path, IQChannels, data)

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	assert.Equal(t, testRate, r.SampleRate())

	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Len(t, raw, len(data)*bytesPerValue)
	for i, want := range data {
		got := int16(binary.LittleEndian.Uint16(raw[i*bytesPerValue:]))
		require.Equal(t, int16(want), got, "value %d", i)
	}
}

func TestReader_RejectsMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeIQWAV(t, path, 1, []int{1, 2, 3, 4})

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReader_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.iq")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0o600))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestReader_FileNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	samples := []int16{0, 1, -1, 32767, -32767, 1234, -4321}

	var raw []byte
	for _, s := range samples {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(s))
	}

	w, err := Create(path, testRate, AudioChannels)
	require.NoError(t, err)
	// Split mid-sample to exercise the carried byte
	_, err = w.Write(raw[:3])
	require.NoError(t, err)
	_, err = w.Write(raw[3:])
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint16(AudioChannels), dec.NumChans)
	assert.Equal(t, uint16(bitDepth), dec.BitDepth)
	assert.Equal(t, uint32(testRate), dec.SampleRate)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, len(samples))
	for i, s := range samples {
		assert.Equal(t, int(s), buf.Data[i], "sample %d", i)
	}
}

func TestCreate_InvalidDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.wav"), testRate, AudioChannels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output file")
}

func TestWriter_IQRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iq.wav")
	values := []int16{100, -100, 32767, -32768, 0, 7}

	var raw []byte
	for _, v := range values {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(v))
	}

	w, err := Create(path, testRate, IQChannels)
	require.NoError(t, err)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}
