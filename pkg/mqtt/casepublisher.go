package mqtt

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
)

// Topics for case events. Other services (dashboard, audit workers)
// subscribe to these.
const (
	TopicCaseCreated = "pancy/cases/created"
	TopicCaseAmended = "pancy/cases/amended"
)

// CasePublisher bridges ledger events onto the MQTT broker. Delivery
// is fire-and-forget: a broker outage never blocks moderation.
type CasePublisher struct {
	mc *MqttCommunicator
}

// NewCasePublisher wraps an existing communicator.
func NewCasePublisher(mc *MqttCommunicator) *CasePublisher {
	return &CasePublisher{mc: mc}
}

func (cp *CasePublisher) CaseCreated(evt moderation.CaseEvent) {
	cp.publish(TopicCaseCreated, evt)
}

func (cp *CasePublisher) CaseAmended(evt moderation.CaseEvent) {
	cp.publish(TopicCaseAmended, evt)
}

func (cp *CasePublisher) publish(topic string, evt moderation.CaseEvent) {
	if cp.mc == nil || !cp.mc.IsConnected() {
		return
	}
	if err := cp.mc.Publish(topic, evt); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar el caso %d en %s: %v", evt.CaseNo, topic, err), "MQTT")
	}
}
