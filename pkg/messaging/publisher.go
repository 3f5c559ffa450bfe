// pkg/messaging/publisher.go
package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	stan "github.com/nats-io/stan.go"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

// SubjectAlerts 提醒事件主题，下游策略服务订阅
const SubjectAlerts = "alerts.results"

// Publisher NATS Streaming事件发布器
// 连接失败不阻塞主流程，提醒事件是旁路输出
type Publisher struct {
	conn stan.Conn
}

// NewPublisher 连接NATS Streaming
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	conn, err := stan.Connect(
		cfg.NATS.ClusterID,
		cfg.NATS.ClientID,
		stan.NatsURL(cfg.NATS.URL),
		stan.SetConnectionLostHandler(func(_ stan.Conn, err error) {
			log.Printf("NATS连接丢失: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("连接NATS失败: %w", err)
	}

	log.Println("NATS连接成功")
	return &Publisher{conn: conn}, nil
}

// PublishAlert 发布提醒事件
func (p *Publisher) PublishAlert(msg *model.AlertMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化提醒事件失败: %w", err)
	}

	if err := p.conn.Publish(SubjectAlerts, data); err != nil {
		return fmt.Errorf("发布提醒事件失败: %w", err)
	}
	return nil
}

// Close 关闭连接
func (p *Publisher) Close() error {
	return p.conn.Close()
}
