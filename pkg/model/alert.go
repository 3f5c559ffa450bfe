// pkg/model/alert.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertMessage 待渲染的提醒消息，构造一次后不再修改
type AlertMessage struct {
	Symbol      string           `json:"symbol"`
	CompanyName string           `json:"company_name,omitempty"` // 解析出的公司名，可为空
	Metrics     ExtractedMetrics `json:"metrics"`
	Analysis    AnalysisResult   `json:"analysis"`
	Detection   time.Duration    `json:"detection"` // 从观测到公告到完成处理的耗时
	DocumentURL string           `json:"document_url"`
	Category    Category         `json:"category"`
	Source      Source           `json:"source"` // 公告来源，新闻模板里做出处标注

	// 新闻类公告的启发式分析结论，非新闻类为nil
	News *NewsInsight `json:"news,omitempty"`

	// 模板回退用的原始内容
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`

	// 提取失败时走降级模板，只带分类和原始描述
	ExtractionFailed bool `json:"extraction_failed"`
}

// AlertRecord 已发送提醒的持久化记录
type AlertRecord struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol          string    `gorm:"type:varchar(20);not null;index" json:"symbol"`
	CompanyName     string    `json:"company_name"`
	Category        Category  `gorm:"type:varchar(30);index" json:"category"`
	Sentiment       Sentiment `gorm:"type:varchar(20);index" json:"sentiment"`
	SentimentScore  float64   `gorm:"type:decimal(8,2)" json:"sentiment_score"`
	ConfidenceScore float64   `gorm:"type:decimal(4,2)" json:"confidence_score"`
	Quarter         int       `json:"quarter"`
	FiscalYear      int       `json:"fiscal_year"`
	Message         string    `gorm:"type:text" json:"message"` // 渲染后的消息全文
	DocumentURL     string    `json:"document_url"`
	Source          Source    `gorm:"type:varchar(30)" json:"source"`
	Delivered       bool      `gorm:"default:false;index" json:"delivered"`
	DetectionMs     int64     `json:"detection_ms"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func (r *AlertRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName 自定义表名
func (AlertRecord) TableName() string {
	return "alert_records"
}
