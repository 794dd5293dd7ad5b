package token

import "realtime_chat_service/pkg/config"

// Overridden in tests
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper indirection point so usecase tests can mock token creation
func GenerateJWTWrapper(memberID, role string) (string, error) {
	return GenerateJWTFunc(memberID, role, config.EnvConfig.MemberService)
}

// ParseJWTWrapper indirection point so usecase tests can mock token parsing
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
