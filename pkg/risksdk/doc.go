/*
Package risksdk provides a client SDK for the risk register service.

# Client vs Session

  - Client: public operations (register, login, refresh, health)
  - Session: authenticated operations with automatic token refresh

Register once, then log in to get a Session:

	client := risksdk.NewClient("http://localhost:8080")

	_, err := client.Register(ctx, risksdk.RegisterRequest{
		Email: "ann@example.com", Password: "correct horse", Name: "Ann",
	})

	session, err := client.Login(ctx, "ann@example.com", "correct horse")

	risks, err := session.ListRisks(ctx, "probability:HIGH,provider:acme")

# Filter expressions

ListRisks takes a comma separated list of filter tokens:

	provider:<id or name>
	user:<id or email>
	probability:<VERY_LOW|LOW|MEDIUM|HIGH|VERY_HIGH>
	impact:<VERY_LOW|LOW|MEDIUM|HIGH|VERY_HIGH>
	<three letter country code>
	<anything else is matched against risk names and descriptions>

Every token narrows the result. An empty expression lists every risk.

# Errors

Failed calls return *APIError carrying the HTTP status, an error code and the
server's message:

	var apiErr *risksdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == risksdk.ErrorCodeNotFound {
		// ...
	}
*/
package risksdk
