package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
	MimePrefixVideo = "video"
)

const (
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// Context / gin 中的身份信息 Key
const (
	CreatorIDKey = "creator_id"
	RolesKey     = "roles"
)

const (
	MaxUploadSize = 100 << 20
)
