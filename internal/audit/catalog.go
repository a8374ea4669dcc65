package audit

// Question 题目目录条目,用于修复缺失题目元数据的历史记录
type Question struct {
	ID                  string     `json:"id"`
	Text                string     `json:"text"`
	Type                AnswerType `json:"type"`
	MaxPoints           int        `json:"max_points"`
	PhotoRequired       bool       `json:"photo_required"`
	ActionPhotoRequired bool       `json:"action_photo_required"`
}

// Catalog 题目目录查询接口
type Catalog interface {
	Lookup(questionID string) (*Question, bool)
}

// Backfill 用当前题目目录回填缺失的题目元数据
// 历史数据缺字段不视为致命错误,按目录默认值自愈,返回修复的答案数
func Backfill(a *Audit, catalog Catalog) int {
	if catalog == nil {
		return 0
	}
	healed := 0
	for si := range a.Sections {
		for ai := range a.Sections[si].Answers {
			ans := &a.Sections[si].Answers[ai]
			if ans.QuestionText != "" && ans.Type != "" && (ans.MaxPoints > 0 || ans.OriginalMaxPoints > 0) {
				continue
			}
			q, ok := catalog.Lookup(ans.QuestionID)
			if !ok {
				continue
			}
			changed := false
			if ans.QuestionText == "" {
				ans.QuestionText = q.Text
				changed = true
			}
			if ans.Type == "" {
				ans.Type = q.Type
				changed = true
			}
			if ans.MaxPoints == 0 && ans.OriginalMaxPoints == 0 && !ans.Exempt() {
				ans.MaxPoints = q.MaxPoints
				changed = true
			}
			if changed {
				ans.PhotoRequired = ans.PhotoRequired || q.PhotoRequired
				ans.ActionPhotoRequired = ans.ActionPhotoRequired || q.ActionPhotoRequired
				healed++
			}
		}
	}
	return healed
}
