package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGapSegmenter_SplitsOnPauses(t *testing.T) {
	seg := NewGapSegmenter(2.0, 90)
	transcript := &Transcript{Segments: []Segment{
		{Start: 0, End: 3.2, Text: " Shut off the water under the sink.", AvgLogprob: 0},
		{Start: 3.5, End: 6.0, Text: " Put a bucket below the trap.", AvgLogprob: 0},
		{Start: 9.0, End: 14.4, Text: " Loosen both slip nuts by hand.", AvgLogprob: 0},
		{Start: 14.6, End: 15.0, Text: "   "},
		{Start: 20.1, End: 25.0, Text: " Wrap the threads with PTFE tape.", AvgLogprob: 0},
	}}

	steps, err := seg.Segment(context.Background(), transcript)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, "Shut off the water under the sink.", steps[0].Title)
	assert.Equal(t, "Shut off the water under the sink. Put a bucket below the trap.", steps[0].Description)
	assert.Equal(t, 0, steps[0].StartTimeSec)
	assert.Equal(t, 6, *steps[0].EndTimeSec)

	assert.Equal(t, 9, steps[1].StartTimeSec)
	assert.Equal(t, 15, *steps[1].EndTimeSec)
	assert.Equal(t, 20, steps[2].StartTimeSec)
	assert.Equal(t, 100, *steps[2].Confidence)
}

func TestGapSegmenter_SplitsLongSteps(t *testing.T) {
	seg := NewGapSegmenter(5, 10)
	var segments []Segment
	for i := 0; i < 6; i++ {
		start := float64(i * 4)
		segments = append(segments, Segment{Start: start, End: start + 4, Text: "Keep turning."})
	}

	steps, err := seg.Segment(context.Background(), &Transcript{Segments: segments})
	require.NoError(t, err)
	require.Len(t, steps, 3)
	for _, s := range steps {
		assert.LessOrEqual(t, *s.EndTimeSec-s.StartTimeSec, 10)
	}
}

func TestGapSegmenter_Confidence(t *testing.T) {
	seg := NewGapSegmenter(2, 90)
	steps, err := seg.Segment(context.Background(), &Transcript{Segments: []Segment{
		{Start: 0, End: 1, Text: "a", AvgLogprob: -0.6931471805599453},
		{Start: 1, End: 2, Text: "b", AvgLogprob: 0},
	}})
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, 75, *steps[0].Confidence)
}

func TestGapSegmenter_TextWithoutSegments(t *testing.T) {
	seg := NewGapSegmenter(2, 90)
	steps, err := seg.Segment(context.Background(), &Transcript{Text: "Replace the washer. Done.", DurationSec: 30.2})
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "Replace the washer.", steps[0].Title)
	assert.Equal(t, 31, *steps[0].EndTimeSec)
	assert.Nil(t, steps[0].Confidence)

	_, err = seg.Segment(context.Background(), &Transcript{})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "first of several", in: "Cut the pipe. Then deburr it.", want: "Cut the pipe."},
		{name: "question", in: "Why does it leak? The seal is worn.", want: "Why does it leak?"},
		{name: "decimal point kept", in: "Use a 1.5 inch trap here", want: "Use a 1.5 inch trap here"},
		{name: "no punctuation", in: "  tighten it  ", want: "tighten it"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstSentence(tt.in, 80))
		})
	}

	long := strings.Repeat("word ", 40)
	got := FirstSentence(long, 80)
	assert.LessOrEqual(t, len([]rune(got)), 80)
	assert.False(t, strings.HasSuffix(got, " "))
}
