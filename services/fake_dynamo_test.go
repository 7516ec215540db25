package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"padel_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoAPI used by the service tests. It applies
// the narrow slice of update-expression grammar the services actually emit.
type fakeDynamo struct {
	tables map[string]map[string]map[string]types.AttributeValue

	// failUpdates injects an error for the next update touching the given
	// "<table>/<key>" target; consumed on first use.
	failUpdates map[string]error

	// beforeUpdates runs once before the next update touching the given
	// target, after the caller's snapshot read. Simulates a racing writer.
	beforeUpdates map[string]func()
}

var fakeTableKeys = map[string][]string{
	models.MatchesTable:       {"matchId"},
	models.UserProfilesTable:  {"userId"},
	models.NotificationsTable: {"userId", "notificationId"},
	models.MessagesTable:      {"matchId", "messageId"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables:        map[string]map[string]map[string]types.AttributeValue{},
		failUpdates:   map[string]error{},
		beforeUpdates: map[string]func(){},
	}
}

var _ DynamoAPI = (*fakeDynamo)(nil)

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return f.tables[name]
}

func (f *fakeDynamo) keyString(tableName string, item map[string]types.AttributeValue) string {
	parts := []string{}
	for _, attr := range fakeTableKeys[tableName] {
		if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
			parts = append(parts, v.Value)
		}
	}
	return strings.Join(parts, "/")
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := map[string]types.AttributeValue{}
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	item, ok := f.table(tableName)[f.keyString(tableName, key)]
	if !ok {
		return nil, ErrItemNotFound
	}
	return copyItem(item), nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	f.table(tableName)[f.keyString(tableName, marshaled)] = marshaled
	return nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	delete(f.table(tableName), f.keyString(tableName, key))
	return nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return f.UpdateItemWithCondition(ctx, tableName, updateExpression, "", key, values, names)
}

func (f *fakeDynamo) UpdateItemWithCondition(ctx context.Context, tableName, updateExpression, conditionExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	target := tableName + "/" + f.keyString(tableName, key)
	if err, ok := f.failUpdates[target]; ok {
		delete(f.failUpdates, target)
		return nil, err
	}
	if hook, ok := f.beforeUpdates[target]; ok {
		delete(f.beforeUpdates, target)
		hook()
	}

	tbl := f.table(tableName)
	ks := f.keyString(tableName, key)
	item, ok := tbl[ks]
	if !ok {
		item = copyItem(key)
		tbl[ks] = item
	}

	if !f.checkCondition(conditionExpression, item, values) {
		return nil, ErrConditionFailed
	}
	f.applyUpdate(item, updateExpression, values, names)
	return copyItem(item), nil
}

func (f *fakeDynamo) checkCondition(cond string, item, values map[string]types.AttributeValue) bool {
	switch {
	case cond == "":
		return true
	case strings.Contains(cond, "size(playersJoined)"):
		set, ok := item["playersJoined"].(*types.AttributeValueMemberSS)
		if !ok {
			return true // attribute_not_exists branch
		}
		needed, _ := strconv.Atoi(values[":needed"].(*types.AttributeValueMemberN).Value)
		userID := values[":userId"].(*types.AttributeValueMemberS).Value
		return len(set.Value) < needed && !containsValue(set.Value, userID)
	case strings.Contains(cond, "resultStatus <> :confirmedStatus"):
		attr, ok := item["resultStatus"].(*types.AttributeValueMemberS)
		return !ok || attr.Value != models.ResultStatusConfirmed
	case strings.Contains(cond, "resultStatus = :pending"):
		attr, ok := item["resultStatus"].(*types.AttributeValueMemberS)
		return ok && attr.Value == models.ResultStatusPending
	}
	panic(fmt.Sprintf("fakeDynamo: unsupported condition %q", cond))
}

// applyUpdate interprets the SET/ADD/DELETE clauses the services use.
func (f *fakeDynamo) applyUpdate(item map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue, names map[string]string) {
	for _, section := range splitSections(expr) {
		verb := section.verb
		for _, clause := range strings.Split(section.body, ",") {
			clause = strings.TrimSpace(clause)
			switch verb {
			case "SET":
				parts := strings.SplitN(clause, "=", 2)
				attr := resolveName(strings.TrimSpace(parts[0]), names)
				item[attr] = values[strings.TrimSpace(parts[1])]
			case "ADD":
				fields := strings.Fields(clause)
				attr := resolveName(fields[0], names)
				switch v := values[fields[1]].(type) {
				case *types.AttributeValueMemberSS:
					existing, _ := item[attr].(*types.AttributeValueMemberSS)
					merged := []string{}
					if existing != nil {
						merged = append(merged, existing.Value...)
					}
					for _, s := range v.Value {
						if !containsValue(merged, s) {
							merged = append(merged, s)
						}
					}
					item[attr] = &types.AttributeValueMemberSS{Value: merged}
				case *types.AttributeValueMemberN:
					current := 0
					if existing, ok := item[attr].(*types.AttributeValueMemberN); ok {
						current, _ = strconv.Atoi(existing.Value)
					}
					delta, _ := strconv.Atoi(v.Value)
					item[attr] = &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
				}
			case "DELETE":
				fields := strings.Fields(clause)
				attr := resolveName(fields[0], names)
				toRemove, _ := values[fields[1]].(*types.AttributeValueMemberSS)
				existing, ok := item[attr].(*types.AttributeValueMemberSS)
				if !ok || toRemove == nil {
					continue
				}
				remaining := []string{}
				for _, s := range existing.Value {
					if !containsValue(toRemove.Value, s) {
						remaining = append(remaining, s)
					}
				}
				if len(remaining) == 0 {
					delete(item, attr) // DynamoDB drops empty sets
				} else {
					item[attr] = &types.AttributeValueMemberSS{Value: remaining}
				}
			case "REMOVE":
				delete(item, resolveName(clause, names))
			}
		}
	}
}

type exprSection struct {
	verb string
	body string
}

func splitSections(expr string) []exprSection {
	verbs := []string{"SET", "ADD", "DELETE", "REMOVE"}
	var sections []exprSection
	tokens := strings.Fields(expr)
	var current *exprSection
	for _, token := range tokens {
		isVerb := false
		for _, v := range verbs {
			if token == v {
				sections = append(sections, exprSection{verb: v})
				current = &sections[len(sections)-1]
				isVerb = true
				break
			}
		}
		if !isVerb && current != nil {
			if current.body != "" {
				current.body += " "
			}
			current.body += token
		}
	}
	return sections
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}

func containsValue(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func (f *fakeDynamo) QueryItems(ctx context.Context, tableName, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	parts := strings.SplitN(keyCondition, "=", 2)
	attr := resolveName(strings.TrimSpace(parts[0]), names)
	want := values[strings.TrimSpace(parts[1])].(*types.AttributeValueMemberS).Value

	var results []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		if v, ok := item[attr].(*types.AttributeValueMemberS); ok && v.Value == want {
			results = append(results, copyItem(item))
		}
	}
	return results, nil
}

func (f *fakeDynamo) ScanWithFilter(ctx context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error {
	var filtered []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		excluded := false
		for field, value := range excludeFields {
			attr, ok := item[field].(*types.AttributeValueMemberS)
			// Mirrors a FilterExpression "#f <> :v": items missing the
			// attribute are excluded too.
			if !ok || attr.Value == value {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if filterFunc == nil || filterFunc(item) {
			filtered = append(filtered, copyItem(item))
		}
	}
	return attributevalue.UnmarshalListOfMaps(filtered, result)
}

func (f *fakeDynamo) BatchWriteItems(ctx context.Context, tableName string, writeRequests []types.WriteRequest) error {
	tbl := f.table(tableName)
	for _, req := range writeRequests {
		if req.PutRequest != nil {
			item := req.PutRequest.Item
			tbl[f.keyString(tableName, item)] = copyItem(item)
		}
		if req.DeleteRequest != nil {
			delete(tbl, f.keyString(tableName, req.DeleteRequest.Key))
		}
	}
	return nil
}
