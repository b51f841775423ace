package queue

import (
	"testing"
)

func TestDecodeJob(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"csv job", `{"id":"5f0c3a8e-0f5e-4d8b-9c39-2b1c1f1a0a01","format":"csv","query":{"page":0}}`, false},
		{"pdf job", `{"id":"5f0c3a8e-0f5e-4d8b-9c39-2b1c1f1a0a01","format":"pdf"}`, false},
		{"unknown format", `{"id":"5f0c3a8e-0f5e-4d8b-9c39-2b1c1f1a0a01","format":"xls"}`, true},
		{"not json", `csv`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := decodeJob(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJob() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && job.ID.String() != "5f0c3a8e-0f5e-4d8b-9c39-2b1c1f1a0a01" {
				t.Errorf("job ID = %s", job.ID)
			}
		})
	}
}
