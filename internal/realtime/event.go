package realtime

// Channel is the single logical pub/sub topic every instance publishes
// to and subscribes from.
const Channel = "events"

// Event types carried on the channel.
const (
	EventNotification   = "notification"
	EventNewProposal    = "new_proposal"
	EventProposalStatus = "proposal_status"
)

// Event is the ephemeral envelope pushed to connected clients. Loss is
// acceptable: the notification row is the durable record.
type Event struct {
	Type      string   `json:"type"`
	ToUserIDs []string `json:"to_user_ids"`
	Data      any      `json:"data"`
}
