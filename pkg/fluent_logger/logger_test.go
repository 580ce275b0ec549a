package fluentlogger

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Host: "fluent-bit", Port: 24224, TagPrefix: "find-a-house"}, false},
		{"no host", Config{Port: 24224, TagPrefix: "find-a-house"}, true},
		{"bad port", Config{Host: "fluent-bit", Port: 70000, TagPrefix: "find-a-house"}, true},
		{"no tag", Config{Host: "fluent-bit", Port: 24224}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
