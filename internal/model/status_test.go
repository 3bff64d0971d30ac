package model

import "testing"

func TestProgressStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   ProgressStatus
		expected bool
	}{
		{ProgressStatusStarting, false},
		{ProgressStatusDownloading, false},
		{ProgressStatusPostProcessing, false},
		{ProgressStatusFinished, true},
		{ProgressStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("ProgressStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestProgressStatus_String(t *testing.T) {
	status := ProgressStatusDownloading
	expected := "downloading"
	result := status.String()

	if result != expected {
		t.Errorf("ProgressStatus.String() = %s, expected %s", result, expected)
	}
}
