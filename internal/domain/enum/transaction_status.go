package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionStatus represents the state of a recorded transaction.
// Voided rows are kept, never deleted.
type TransactionStatus int

const (
	TransactionStatusCompleted TransactionStatus = 0
	TransactionStatusVoided    TransactionStatus = 1
)

func (s TransactionStatus) String() string {
	return [...]string{"Completed", "Voided"}[s]
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TransactionStatus(i)
		return nil
	}
	switch str {
	case "Completed":
		*s = TransactionStatusCompleted
	case "Voided":
		*s = TransactionStatusVoided
	}
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TransactionStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = TransactionStatus(v)
	case int:
		*s = TransactionStatus(v)
	}
	return nil
}
