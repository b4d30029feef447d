package testutil

import "plumberf/internal/app/model"

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// SinkDraft is a three step lesson draft for a kitchen sink drain replacement.
func SinkDraft() *model.LessonDraft {
	return &model.LessonDraft{
		Title:            "Replace a kitchen sink P-trap",
		ShortDescription: "Removing a leaking trap and fitting a new one.",
		Language:         "en",
		DurationSec:      IntPtr(312),
		Steps: []model.StepDraft{
			{
				Title:        "Shut off and drain",
				Description:  "Put a bucket under the trap and loosen the slip nuts.",
				StartTimeSec: 0,
				EndTimeSec:   IntPtr(45),
				Confidence:   IntPtr(88),
				Tools:        []string{"Bucket", "Channel-lock pliers"},
			},
			{
				Title:        "Remove the old trap",
				Description:  "Pull the trap and clean the tailpiece threads.",
				StartTimeSec: 47,
				EndTimeSec:   IntPtr(140),
				Confidence:   IntPtr(91),
				Tools:        []string{"Channel-lock pliers"},
			},
			{
				Title:        "Fit the new trap",
				Description:  "Wrap the threads with PTFE tape and hand tighten.",
				StartTimeSec: 142,
				EndTimeSec:   IntPtr(310),
				Tools:        []string{"Channel-lock pliers"},
				Materials:    []string{"PTFE tape", "1-1/2 in P-trap"},
			},
		},
		Tags: []string{"sink", "drain"},
		Transcript: model.TranscriptDraft{
			Raw:          "First put a bucket under the trap...",
			Narration:    "1. Shut off and drain\n2. Remove the old trap\n3. Fit the new trap",
			SubtitlesSRT: "1\n00:00:00,000 --> 00:00:45,000\nFirst put a bucket under the trap...\n",
		},
	}
}
