package enum

import "encoding/json"

// PaymentState represents the payment orchestrator's position in the
// selection/capture state machine. Never persisted; a PaymentSelection is
// destroyed on completion or cancellation.
type PaymentState int

const (
	PaymentStateNoMethodSelected PaymentState = 0
	PaymentStateMethodSelected   PaymentState = 1
	PaymentStateAwaitingAmount   PaymentState = 2
	PaymentStateCapturing        PaymentState = 3
	PaymentStateCaptured         PaymentState = 4
	PaymentStateFailed           PaymentState = 5
	PaymentStateCancelled        PaymentState = 6
)

func (s PaymentState) String() string {
	names := [...]string{
		"NoMethodSelected", "MethodSelected", "AwaitingAmount",
		"Capturing", "Captured", "Failed", "Cancelled",
	}
	if int(s) < 0 || int(s) >= len(names) {
		return "NoMethodSelected"
	}
	return names[s]
}

func (s PaymentState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
