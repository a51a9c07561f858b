package inbox

import (
	"strings"

	"chat_inbox_server/internal/dto/respond"
)

// platformRule session_id 包含 Needle（区分大小写）即归为该平台
type platformRule struct {
	Needle string
	Info   respond.PlatformInfo
}

var (
	lineInfo      = respond.PlatformInfo{Name: "LINE", Icon: "🟢", Color: "bg-green-500"}
	messengerInfo = respond.PlatformInfo{Name: "Messenger", Icon: "🔵", Color: "bg-blue-600"}
	instagramInfo = respond.PlatformInfo{Name: "Instagram", Icon: "📸", Color: "bg-purple-500"}
	unknownInfo   = respond.PlatformInfo{Name: "Unknown", Icon: "💬", Color: "bg-gray-500"}
)

// platformRules 按顺序匹配，第一条命中即返回
var platformRules = []platformRule{
	{Needle: "line", Info: lineInfo},
	{Needle: "messenger", Info: messengerInfo},
	{Needle: "instagram", Info: instagramInfo},
	{Needle: "ig", Info: instagramInfo},
}

// creatablePlatforms 新建会话时可选的平台前缀
var creatablePlatforms = []string{"line", "messenger", "instagram"}

// Classify 根据 session_id 判断来源平台
func Classify(sessionId string) respond.PlatformInfo {
	for _, rule := range platformRules {
		if strings.Contains(sessionId, rule.Needle) {
			return rule.Info
		}
	}
	return unknownInfo
}

// Platforms 可用于新建会话的平台
func Platforms() []respond.PlatformOption {
	out := make([]respond.PlatformOption, 0, len(creatablePlatforms))
	for _, p := range creatablePlatforms {
		out = append(out, respond.PlatformOption{Value: p, Info: Classify(p)})
	}
	return out
}

// IsCreatable 判断平台前缀是否可用于新建会话
func IsCreatable(platform string) bool {
	for _, p := range creatablePlatforms {
		if p == platform {
			return true
		}
	}
	return false
}
