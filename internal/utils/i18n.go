package utils

// Server-side messages only; UI copy lives in the frontend.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":                 "ok",
		"request.invalid":           "The request body could not be read.",
		"result.invalid_answers":    "Every question needs an answer of A or B.",
		"result.invalid_record":     "This result cannot be read by this version.",
		"result.invalid_timestamp":  "The result id must be a positive number.",
		"result.not_found":          "No result was found for this id.",
		"result.save_failed":        "Your result could not be saved. Please try again.",
		"result.load_failed":        "Results are temporarily unavailable. Please try again.",
		"result.clear_failed":       "Results could not be cleared. Please try again.",
		"report.not_found":          "No report exists for this personality type.",
		"report.unknown_section":    "Unknown report section.",
		"score.not_found":           "That question or answer does not exist.",
		"share.invalid":             "This share link is invalid or has expired.",
		"auth.invalid_credentials":  "Wrong password.",
		"auth.unauthorized":         "Administrator sign-in required.",
		"auth.disabled":             "Administrator access is not configured.",
		"export.unsupported_format": "Unsupported export format.",
		"internal":                  "Something went wrong.",
	},
	"zh": {
		"health.ok":                 "好的",
		"request.invalid":           "无法读取请求内容。",
		"result.invalid_answers":    "每道题都需要选择 A 或 B。",
		"result.invalid_record":     "当前版本无法读取该结果。",
		"result.invalid_timestamp":  "结果编号必须为正整数。",
		"result.not_found":          "未找到该结果。",
		"result.save_failed":        "结果保存失败，请重试。",
		"result.load_failed":        "结果暂时无法读取，请稍后重试。",
		"result.clear_failed":       "清除结果失败，请重试。",
		"report.not_found":          "该人格类型没有对应的报告。",
		"report.unknown_section":    "未知的报告章节。",
		"score.not_found":           "题目或选项不存在。",
		"share.invalid":             "分享链接无效或已过期。",
		"auth.invalid_credentials":  "密码错误。",
		"auth.unauthorized":         "需要管理员登录。",
		"auth.disabled":             "未配置管理员访问。",
		"export.unsupported_format": "不支持的导出格式。",
		"internal":                  "出现了一些问题。",
	},
}

// Locales lists the supported locales, default first.
var Locales = []string{"en", "zh"}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
