// Package scoring 计算答案得分并聚合为分区分数和总分
package scoring

import (
	"math"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
)

// Recompute 重新计算整个审计的分数
// 每次答案变更后调用,幂等,除分数字段外不修改任何内容
func Recompute(a *audit.Audit) {
	maxTotal := 0
	var sectionScores []float64

	for si := range a.Sections {
		sec := &a.Sections[si]
		earnedSum, maxSum := 0, 0
		for ai := range sec.Answers {
			ans := &sec.Answers[ai]
			scoreAnswer(ans)
			maxTotal += ans.MaxPoints
			if !ans.Answered() || ans.Exempt() {
				continue
			}
			earnedSum += ans.EarnedPoints
			maxSum += ans.MaxPoints
		}
		// 没有可计分答案的分区不参与总分
		if maxSum == 0 {
			sec.Score = 0
			continue
		}
		sec.Score = 100 * float64(earnedSum) / float64(maxSum)
		sectionScores = append(sectionScores, sec.Score)
	}

	a.MaxScore = maxTotal
	// 总分是各分区分数的简单平均,分区权重相同,与题目数量无关
	// 全部免检时没有分区参与,总分为 0
	if len(sectionScores) == 0 {
		a.Score = 0
		return
	}
	sum := 0.0
	for _, s := range sectionScores {
		sum += s
	}
	a.Score = int(math.Round(sum / float64(len(sectionScores))))
}

// scoreAnswer 按题型计算单个答案的得分
func scoreAnswer(ans *audit.Answer) {
	// 免检处理:满分清零但保留原值,取消免检时可恢复
	if ans.Exempt() {
		if ans.MaxPoints != 0 {
			ans.OriginalMaxPoints = ans.MaxPoints
			ans.MaxPoints = 0
		}
		ans.EarnedPoints = 0
		return
	}
	if ans.MaxPoints == 0 && ans.OriginalMaxPoints != 0 {
		ans.MaxPoints = ans.OriginalMaxPoints
	}

	if !ans.Answered() {
		ans.EarnedPoints = 0
		return
	}

	switch v := ans.Value.(type) {
	case audit.YesNoValue:
		if v.Yes {
			ans.EarnedPoints = ans.MaxPoints
		} else {
			ans.EarnedPoints = 0
		}
	case audit.RatingValue:
		if v.Scale <= 0 {
			ans.EarnedPoints = 0
			break
		}
		ans.EarnedPoints = clamp(int(math.Round(float64(v.Selected)/float64(v.Scale)*float64(ans.MaxPoints))), ans.MaxPoints)
	case audit.MultipleChoiceValue:
		ans.EarnedPoints = clamp(v.Points, ans.MaxPoints)
	case audit.CheckboxValue:
		sum := 0
		for _, opt := range v.Selected {
			sum += opt.Points
		}
		ans.EarnedPoints = clamp(sum, ans.MaxPoints)
	case audit.NumberValue, audit.DateValue, audit.TextValue:
		// 信息型题目不计分
		ans.EarnedPoints = 0
	default:
		ans.EarnedPoints = 0
	}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
