package dynamo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// updateExpr is a prepared UpdateItem expression with its attribute
// name/value substitutions.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value plus a list of fields
// to delete into a DynamoDB "SET ... REMOVE ..." expression. Keys are
// sorted so the expression is deterministic. At least one set or remove
// is required.
func buildUpdateExpr(sets map[string]interface{}, removes []string) (*updateExpr, error) {
	if len(sets) == 0 && len(removes) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	ue := &updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}

	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	if len(keys) > 0 {
		clauses := make([]string, 0, len(keys))
		for i, k := range keys {
			nameKey := fmt.Sprintf("#f%d", i)
			valueKey := fmt.Sprintf(":v%d", i)
			ue.Names[nameKey] = k
			av, err := attributevalue.Marshal(sets[k])
			if err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", k, err)
			}
			ue.Values[valueKey] = av
			clauses = append(clauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		}
		parts = append(parts, "SET "+strings.Join(clauses, ", "))
	}

	if len(removes) > 0 {
		sorted := append([]string(nil), removes...)
		sort.Strings(sorted)
		clauses := make([]string, 0, len(sorted))
		for i, k := range sorted {
			nameKey := fmt.Sprintf("#r%d", i)
			ue.Names[nameKey] = k
			clauses = append(clauses, nameKey)
		}
		parts = append(parts, "REMOVE "+strings.Join(clauses, ", "))
	}

	ue.Expr = strings.Join(parts, " ")
	return ue, nil
}
