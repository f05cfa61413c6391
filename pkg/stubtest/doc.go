// Package stubtest binds a stub.Mock to a test.
//
// # Basic Usage
//
//	func TestFetchUser(t *testing.T) {
//	    s, c := stubtest.NewOffline(t)
//
//	    s.Respond(s.Get("https://api.example.com/users/1"),
//	        stub.WithJSON(map[string]any{"id": 1, "name": "ann"}))
//
//	    user, err := FetchUser(t.Context(), c, 1)
//	    require.NoError(t, err)
//
//	    s.AssertCalled(t, "GET", "https://api.example.com/users/1")
//	    s.AssertAllCalled(t)
//	}
//
// The session is deactivated in t.Cleanup, so registrations never leak into
// other tests. Calls that match nothing reach the client's previous
// transport; NewOffline installs one that fails every call with a
// connection error so unexpected requests surface as test failures.
//
// # Existing Clients
//
// New intercepts an existing client.Client and NewHTTP a plain *http.Client:
//
//	hc := &http.Client{}
//	s := stubtest.NewHTTP(t, hc)
//	s.Respond(s.Post("https://host/hook"), stub.WithStatus(204))
//
// # Assertions
//
//	s.AssertCalledTimes(t, "POST", "https://host/hook", 2)
//	s.AssertNotCalled(t, "DELETE", "https://host/hook")
//	s.AssertNoUnmatched(t)
//
//	call := s.LastCall("POST", "https://host/items")
//	s.AssertJSONPath(t, call, "$.items[0].sku", "A-1")
package stubtest
