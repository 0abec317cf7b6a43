package scd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurrogateKeyExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  UniqueKey
		want string
	}{
		{
			name: "single column",
			key:  UniqueKey{"id"},
			want: "TO_HEX(SHA256(CAST(s.id AS STRING)))",
		},
		{
			name: "composite key concatenates in the declared order",
			key:  UniqueKey{"a", "b"},
			want: "TO_HEX(SHA256(CONCAT(CAST(s.a AS STRING), CAST(s.b AS STRING))))",
		},
		{
			name: "reordering the key changes the expression",
			key:  UniqueKey{"b", "a"},
			want: "TO_HEX(SHA256(CONCAT(CAST(s.b AS STRING), CAST(s.a AS STRING))))",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, surrogateKeyExpr("s", tt.key))
		})
	}
}

func TestChangePredicate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name: "check strategy ORs the columns in the declared order",
			config: Config{
				Strategy:     StrategyCheck,
				CheckColumns: []string{"x", "y"},
			},
			want: "(new.x != prev.x) OR (new.y != prev.y)",
		},
		{
			name: "check strategy with a single column",
			config: Config{
				Strategy:     StrategyCheck,
				CheckColumns: []string{"value"},
			},
			want: "(new.value != prev.value)",
		},
		{
			name: "timestamp strategy compares as timestamps",
			config: Config{
				Strategy:        StrategyTimestamp,
				TimestampColumn: "updated_at",
			},
			want: "CAST(new.updated_at AS TIMESTAMP) > CAST(prev.updated_at AS TIMESTAMP)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.config.changePredicate("new", "prev"))
		})
	}
}

func TestJoinCondition(t *testing.T) {
	t.Parallel()

	cfg := Config{UniqueKey: UniqueKey{"user_id", "client_id"}}
	assert.Equal(t, "s.user_id = t.user_id AND s.client_id = t.client_id", cfg.joinCondition("s", "t"))
}
