package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemKind represents how a cart line is quantified
type ItemKind int

const (
	ItemKindUnit   ItemKind = 0
	ItemKindWeight ItemKind = 1
)

func (k ItemKind) String() string {
	names := [...]string{"Unit", "Weight"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unit"
	}
	return names[k]
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = ItemKind(i)
		return nil
	}
	switch str {
	case "Unit":
		*k = ItemKindUnit
	case "Weight":
		*k = ItemKindWeight
	}
	return nil
}

func (k ItemKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	if value == nil {
		*k = ItemKindUnit
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = ItemKind(v)
	case int:
		*k = ItemKind(v)
	}
	return nil
}
