package model

// AuthUser - bearer 토큰에서 추출한 호출자 정보
type AuthUser struct {
	Subject string
	Issuer  string
}
