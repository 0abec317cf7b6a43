package scd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	sourceAlias = "s"
	targetAlias = "t"
)

// surrogateKeyExpr builds the scd_id expression: the hex-encoded SHA256 of
// the string-cast key columns, concatenated in their declared order for
// composite keys.
func surrogateKeyExpr(alias string, key UniqueKey) string {
	casts := lo.Map(key, func(col string, _ int) string {
		return fmt.Sprintf("CAST(%s.%s AS STRING)", alias, col)
	})

	if len(casts) == 1 {
		return fmt.Sprintf("TO_HEX(SHA256(%s))", casts[0])
	}

	return fmt.Sprintf("TO_HEX(SHA256(CONCAT(%s)))", strings.Join(casts, ", "))
}

// changePredicate is the condition under which a source row is considered a
// new version of an already-known record. NULL comparisons keep the engine's
// native `!=` semantics, a null operand makes the term unknown rather than
// true.
func (c *Config) changePredicate(newAlias, prevAlias string) string {
	if c.Strategy == StrategyTimestamp {
		return fmt.Sprintf("CAST(%s.%s AS TIMESTAMP) > CAST(%s.%s AS TIMESTAMP)", newAlias, c.TimestampColumn, prevAlias, c.TimestampColumn)
	}

	conds := lo.Map(c.CheckColumns, func(col string, _ int) string {
		return fmt.Sprintf("(%[1]s.%[3]s != %[2]s.%[3]s)", newAlias, prevAlias, col)
	})

	return strings.Join(conds, " OR ")
}

func (c *Config) joinCondition(newAlias, prevAlias string) string {
	conds := lo.Map(c.UniqueKey, func(col string, _ int) string {
		return fmt.Sprintf("%[1]s.%[3]s = %[2]s.%[3]s", newAlias, prevAlias, col)
	})

	return strings.Join(conds, " AND ")
}
