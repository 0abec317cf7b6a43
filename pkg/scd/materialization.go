package scd

import (
	"fmt"
	"strings"
)

// buildIncrementalQuery selects the source rows that are either unseen keys
// or changed versions of known keys, stamped for appending to the historical
// relation. Prior versions are never touched, the query is insert-only.
func buildIncrementalQuery(c *Config, source, self string) string {
	lines := []string{
		"SELECT",
		fmt.Sprintf("  %s.*,", sourceAlias),
		fmt.Sprintf("  %s AS scd_id,", surrogateKeyExpr(sourceAlias, c.UniqueKey)),
		"  CURRENT_TIMESTAMP() AS scd_valid_from,",
		"  CAST(NULL AS TIMESTAMP) AS scd_valid_to",
		fmt.Sprintf("FROM %s AS %s", source, sourceAlias),
		fmt.Sprintf("LEFT JOIN %s AS %s", self, targetAlias),
		"  ON " + c.joinCondition(sourceAlias, targetAlias),
		fmt.Sprintf("WHERE %s.%s IS NULL OR %s", targetAlias, c.UniqueKey[0], c.changePredicate(sourceAlias, targetAlias)),
	}

	return strings.Join(lines, "\n")
}

// buildFullLoadQuery rebuilds the complete historical relation from the
// source in one pass. The timestamp strategy stamps scd_valid_from with the
// source's own timestamp column so the first version of each record carries
// its upstream change time; the check strategy has no such signal and falls
// back to the processing time.
func buildFullLoadQuery(c *Config, source string) string {
	validFrom := "CURRENT_TIMESTAMP()"
	if c.Strategy == StrategyTimestamp {
		validFrom = fmt.Sprintf("CAST(%s.%s AS TIMESTAMP)", sourceAlias, c.TimestampColumn)
	}

	lines := []string{
		"SELECT",
		fmt.Sprintf("  %s.*,", sourceAlias),
		fmt.Sprintf("  %s AS scd_id,", surrogateKeyExpr(sourceAlias, c.UniqueKey)),
		fmt.Sprintf("  %s AS scd_valid_from,", validFrom),
		"  CAST(NULL AS TIMESTAMP) AS scd_valid_to",
		fmt.Sprintf("FROM %s AS %s", source, sourceAlias),
	}

	return strings.Join(lines, "\n")
}

// buildValidityWindowQuery computes scd_valid_to for every historical row by
// looking ahead to the next version of the same key. The last version of each
// key keeps a null scd_valid_to, which marks it as the current one.
func buildValidityWindowQuery(c *Config, historical string) string {
	keyList := strings.Join(c.UniqueKey, ", ")

	if c.Strategy == StrategyTimestamp {
		// scd_valid_from is re-derived from the timestamp column rather than
		// trusted from the stored value.
		ts := fmt.Sprintf("CAST(%s AS TIMESTAMP)", c.TimestampColumn)
		lines := []string{
			"SELECT",
			"  * EXCEPT (scd_valid_from, scd_valid_to),",
			fmt.Sprintf("  %s AS scd_valid_from,", ts),
			fmt.Sprintf("  LEAD(%s) OVER (PARTITION BY %s ORDER BY %s ASC) AS scd_valid_to", ts, keyList, c.TimestampColumn),
			"FROM " + historical,
		}

		return strings.Join(lines, "\n")
	}

	lines := []string{
		"SELECT",
		"  * EXCEPT (scd_valid_to),",
		fmt.Sprintf("  LEAD(scd_valid_from) OVER (PARTITION BY %s ORDER BY scd_valid_from ASC) AS scd_valid_to", keyList),
		"FROM " + historical,
		fmt.Sprintf("ORDER BY %s, scd_valid_from", keyList),
	}

	return strings.Join(lines, "\n")
}
