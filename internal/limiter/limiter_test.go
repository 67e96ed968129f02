package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid limit only",
			cfg:     Config{Limit: 10},
			wantErr: false,
		},
		{
			name:    "valid offset only",
			cfg:     Config{Offset: 5},
			wantErr: false,
		},
		{
			name:    "valid limit and offset",
			cfg:     Config{Limit: 10, Offset: 5},
			wantErr: false,
		},
		{
			name:    "valid tail only",
			cfg:     Config{Tail: 10},
			wantErr: false,
		},
		{
			name:    "tail ignores offset (valid)",
			cfg:     Config{Tail: 10, Offset: 5},
			wantErr: false,
		},
		{
			name:    "limit and tail mutually exclusive",
			cfg:     Config{Limit: 10, Tail: 5},
			wantErr: true,
			errMsg:  "mutually exclusive",
		},
		{
			name:    "negative limit invalid",
			cfg:     Config{Limit: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "negative offset invalid",
			cfg:     Config{Offset: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "negative tail invalid",
			cfg:     Config{Tail: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "zero values valid",
			cfg:     Config{Limit: 0, Offset: 0, Tail: 0},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantBool bool
	}{
		{
			name:     "no flags set",
			cfg:      Config{},
			wantBool: false,
		},
		{
			name:     "limit set",
			cfg:      Config{Limit: 10},
			wantBool: true,
		},
		{
			name:     "offset set",
			cfg:      Config{Offset: 5},
			wantBool: true,
		},
		{
			name:     "tail set",
			cfg:      Config{Tail: 10},
			wantBool: true,
		},
		{
			name:     "all flags set",
			cfg:      Config{Limit: 10, Offset: 5, Tail: 0}, // tail not really set
			wantBool: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.IsActive()
			assert.Equal(t, tt.wantBool, got)
		})
	}
}


func TestApply(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name string
		cfg  Config
		want []int
	}{
		{name: "inactive returns input", cfg: Config{}, want: rows},
		{name: "limit 3", cfg: Config{Limit: 3}, want: []int{1, 2, 3}},
		{name: "offset 7", cfg: Config{Offset: 7}, want: []int{8, 9, 10}},
		{name: "offset and limit", cfg: Config{Offset: 2, Limit: 3}, want: []int{3, 4, 5}},
		{name: "tail 2", cfg: Config{Tail: 2}, want: []int{9, 10}},
		{name: "tail larger than input", cfg: Config{Tail: 50}, want: rows},
		{name: "limit larger than input", cfg: Config{Limit: 50}, want: rows},
		{name: "offset past end", cfg: Config{Offset: 20}, want: []int{}},
		{name: "offset at end with limit", cfg: Config{Offset: 10, Limit: 5}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, rows))
		})
	}
}

func TestApplyRowsOfStrings(t *testing.T) {
	rows := [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}, {"f"}, {"g"}}
	got := Apply(Config{Limit: 5}, rows)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"e"}, got[4])
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(Config{Limit: 5}, []string{}))
	assert.Empty(t, Apply(Config{Tail: 5}, []string(nil)))
}

func TestTailIgnoresOffset(t *testing.T) {
	start, end := Config{Tail: 3, Offset: 5}.Bounds(10)
	assert.Equal(t, 7, start)
	assert.Equal(t, 10, end)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		n    int
		want string
	}{
		{name: "inactive", cfg: Config{}, n: 10, want: ""},
		{name: "limit not reached", cfg: Config{Limit: 20}, n: 10, want: ""},
		{name: "limit", cfg: Config{Limit: 5}, n: 120, want: "rows 1-5 of 120"},
		{name: "offset and limit", cfg: Config{Offset: 10, Limit: 10}, n: 120, want: "rows 11-20 of 120"},
		{name: "tail", cfg: Config{Tail: 2}, n: 4, want: "rows 3-4 of 4"},
		{name: "offset past end", cfg: Config{Offset: 9}, n: 4, want: "no rows of 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Describe(tt.n))
		})
	}
}
