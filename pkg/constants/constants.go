package constants

const (
	CHANNEL_SIZE          = 100                  // 订阅队列与 websocket 发送队列大小
	DEFAULT_TABLE_NAME    = "n8n_chat_histories" // 聊天记录表名
	PREVIEW_MAX_RUNES     = 30                   // 会话列表预览最大字符数
	DEFAULT_REDIS_CHANNEL = "chat_history_changes"
	DEFAULT_CHANGE_TOPIC  = "chat_history_changes"
	SESSION_ID_SEPARATOR  = "_" // <platform>_<identifier>
)
