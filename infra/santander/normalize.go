package santander

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/radhian/pix-reconciliation/entity"
)

// The statement API has shipped several field spellings; the first present
// key in each list wins.
var (
	listKeys        = []string{"transacoes", "lancamentos", "itens"}
	descriptionKeys = []string{"descricao", "historico", "descricaoTransacao"}
	amountKeys      = []string{"valor", "valorLancamento"}
	dateKeys        = []string{"data", "dataLancamento", "dataTransacao"}
	typeKeys        = []string{"tipo", "tipoTransacao"}
	hashKeys        = []string{"hash", "id", "hashBancario"}
)

// NormalizeStatement maps a decoded statement body (a list of items, or an
// object wrapping one) into entries. Items that are not objects are dropped;
// malformed fields degrade to zero values instead of failing the statement.
func NormalizeStatement(payload interface{}) []entity.StatementEntry {
	var items []interface{}
	switch body := payload.(type) {
	case []interface{}:
		items = body
	case map[string]interface{}:
		for _, key := range listKeys {
			if list, ok := body[key].([]interface{}); ok {
				items = list
				break
			}
		}
	}

	entries := make([]entity.StatementEntry, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		entries = append(entries, normalizeItem(item))
	}
	return entries
}

func normalizeItem(item map[string]interface{}) entity.StatementEntry {
	description := strings.TrimSpace(firstString(item, descriptionKeys))
	kind := strings.ToUpper(firstString(item, typeKeys))

	return entity.StatementEntry{
		Description:  description,
		Amount:       parseAmount(first(item, amountKeys)),
		OccurredOn:   firstString(item, dateKeys),
		ExternalHash: firstString(item, hashKeys),
		IsPixCredit:  strings.Contains(kind, "PIX") || strings.Contains(strings.ToUpper(description), "PIX"),
	}
}

// first returns the first value under keys that is present and not blank.
// Zero numbers and false count as blank, so "valor": 0 falls through to
// "valorLancamento".
func first(item map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		v, ok := item[key]
		if !ok || blank(v) {
			continue
		}
		return v
	}
	return nil
}

func blank(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return err == nil && d.IsZero()
	case float64:
		return x == 0
	case []interface{}:
		return len(x) == 0
	case map[string]interface{}:
		return len(x) == 0
	}
	return false
}

func firstString(item map[string]interface{}, keys []string) string {
	switch v := first(item, keys).(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func parseAmount(v interface{}) decimal.NullDecimal {
	var (
		d   decimal.Decimal
		err error
	)
	switch n := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(n.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(n))
	case float64:
		d = decimal.NewFromFloat(n)
	default:
		return decimal.NullDecimal{}
	}
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
