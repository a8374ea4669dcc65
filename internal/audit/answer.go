package audit

import (
	"encoding/json"
	"fmt"
)

// AnswerType 答案类型
type AnswerType string

const (
	TypeYesNo          AnswerType = "yes_no"
	TypeMultipleChoice AnswerType = "multiple_choice"
	TypeCheckbox       AnswerType = "checkbox"
	TypeRating         AnswerType = "rating"
	TypeNumber         AnswerType = "number"
	TypeDate           AnswerType = "date"
	TypeText           AnswerType = "text"
)

// AnswerValue 答案值的封闭联合类型
// 每种题型一个具体类型,评分和流程逻辑对其做穷举处理
type AnswerValue interface {
	answerValue()
}

// YesNoValue 是/否题答案,Exempt 表示免检
type YesNoValue struct {
	Yes    bool `json:"yes"`
	Exempt bool `json:"exempt,omitempty"`
}

// MultipleChoiceValue 单选题答案,Points 为所选选项的固定分值
type MultipleChoiceValue struct {
	Option string `json:"option"`
	Points int    `json:"points"`
}

// CheckboxOption 多选题的一个已选选项
type CheckboxOption struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// CheckboxValue 多选题答案
type CheckboxValue struct {
	Selected []CheckboxOption `json:"selected"`
}

// RatingValue 评分题答案,Selected 在 [0, Scale] 区间
type RatingValue struct {
	Selected int `json:"selected"`
	Scale    int `json:"scale"`
}

// NumberValue 数值题答案,不参与评分
type NumberValue struct {
	Number float64 `json:"number"`
}

// DateValue 日期题答案,不参与评分
type DateValue struct {
	Date string `json:"date"`
}

// TextValue 文本题答案,不参与评分
type TextValue struct {
	Text string `json:"text"`
}

func (YesNoValue) answerValue()          {}
func (MultipleChoiceValue) answerValue() {}
func (CheckboxValue) answerValue()       {}
func (RatingValue) answerValue()         {}
func (NumberValue) answerValue()         {}
func (DateValue) answerValue()           {}
func (TextValue) answerValue()           {}

// Answer 一条检查项回答
type Answer struct {
	QuestionID          string      `json:"question_id"`
	QuestionText        string      `json:"question_text"`
	Type                AnswerType  `json:"type"`
	Value               AnswerValue `json:"-"`
	EarnedPoints        int         `json:"earned_points"`
	MaxPoints           int         `json:"max_points"`
	OriginalMaxPoints   int         `json:"original_max_points"`
	PhotoRequired       bool        `json:"photo_required"`
	ActionPhotoRequired bool        `json:"action_photo_required"`
	Notes               []string    `json:"notes,omitempty"`
	Photos              []string    `json:"photos,omitempty"`
	Action              *ActionData `json:"action,omitempty"`
}

// answerAlias 避免 MarshalJSON 递归
type answerAlias Answer

type answerEnvelope struct {
	answerAlias
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON 将联合类型的 Value 序列化为 {"type": ..., "value": ...} 包络
func (a Answer) MarshalJSON() ([]byte, error) {
	env := answerEnvelope{answerAlias: answerAlias(a)}
	if a.Value != nil {
		raw, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		env.Value = raw
	}
	return json.Marshal(env)
}

// UnmarshalJSON 按 type 字段还原具体的答案值类型
func (a *Answer) UnmarshalJSON(data []byte) error {
	var env answerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*a = Answer(env.answerAlias)
	if len(env.Value) == 0 || string(env.Value) == "null" {
		a.Value = nil
		return nil
	}
	val, err := decodeValue(a.Type, env.Value)
	if err != nil {
		return err
	}
	a.Value = val
	return nil
}

func decodeValue(t AnswerType, raw json.RawMessage) (AnswerValue, error) {
	switch t {
	case TypeYesNo:
		var v YesNoValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeMultipleChoice:
		var v MultipleChoiceValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeCheckbox:
		var v CheckboxValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeRating:
		var v RatingValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeNumber:
		var v NumberValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeDate:
		var v DateValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeText:
		var v TextValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown answer type: %q", t)
	}
}

// Answered 答案是否非空
func (a *Answer) Answered() bool {
	return a.Value != nil
}

// Exempt 答案是否被免检
func (a *Answer) Exempt() bool {
	if v, ok := a.Value.(YesNoValue); ok {
		return v.Exempt
	}
	return false
}

// IsFailing 答案是否为失败项
// 失败项指已作答、未免检、满分大于 0 且得分未达满分的答案
func (a *Answer) IsFailing() bool {
	if !a.Answered() || a.Exempt() {
		return false
	}
	max := a.MaxPoints
	if max == 0 {
		max = a.OriginalMaxPoints
	}
	return max > 0 && a.EarnedPoints < max
}

// EnsureAction 确保失败项携带整改数据,已存在则保持不变
func (a *Answer) EnsureAction() *ActionData {
	if a.Action == nil {
		a.Action = &ActionData{Status: StatusPendingStore, StoreImages: []string{}}
	}
	a.Action.Status = NormalizeStatus(a.Action.Status)
	if a.Action.StoreImages == nil {
		a.Action.StoreImages = []string{}
	}
	return a.Action
}
