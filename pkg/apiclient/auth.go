package apiclient

// BearerAuth returns the Authorization header mapping for a bearer token.
// The token is used as given; no format validation is performed.
func BearerAuth(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
