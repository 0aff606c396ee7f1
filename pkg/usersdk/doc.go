// Package usersdk is a Go client for the user management API.
//
// Unauthenticated calls (register, login, health) live on SDKClient. Login
// returns a Session that carries the identity token and exposes the calls
// that need it:
//
//	client := usersdk.NewSDKClient("http://localhost:8080")
//	sess, err := client.Login(ctx, "alice", "Secret123")
//	if err != nil {
//		return err
//	}
//	page, err := sess.ListUsers(ctx, 1, 10)
//
// Every non-success response is returned as an *APIError carrying the HTTP
// status and the server's message.
package usersdk
