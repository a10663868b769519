package domain

// Flow identifies the multi-step capture a user is currently in. A session
// holds exactly one flow at a time, so two captures can never be active
// simultaneously.
type Flow string

const (
	FlowIdle               Flow = ""
	FlowDepositData        Flow = "deposit_data"
	FlowWithdrawAmount     Flow = "withdraw_amount"
	FlowWithdrawWallet     Flow = "withdraw_wallet"
	FlowApplicationDetails Flow = "application_details"
	FlowAdminReply         Flow = "admin_reply"
)

// Session is the per-user ephemeral state driving multi-turn input capture.
// Scratch fields are only meaningful for the flow that set them; Clear wipes
// everything when a flow completes or is aborted.
type Session struct {
	Flow Flow `json:"flow"`

	ApplicationType ApplicationType `json:"application_type,omitempty"`
	WithdrawAmount  float64         `json:"withdraw_amount,omitempty"`
	ReplyToAppID    string          `json:"reply_to_app_id,omitempty"`
	ReplyToUserID   int64           `json:"reply_to_user_id,omitempty"`
}

// Idle reports whether no capture flow is active.
func (s Session) Idle() bool {
	return s.Flow == FlowIdle
}
