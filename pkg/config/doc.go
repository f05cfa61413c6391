// Package config loads expectation fixtures for stub.Mock from YAML or JSON
// files.
//
// This package defines the fixture structures:
//   - Fixture: the expectations declared in one file
//   - Expectation: one method, URL, request options and response
//   - RequestSpec: the request options that must match exactly
//   - ResponseSpec: the canned response
//
// File-based Configuration:
//
//	expectations:
//	  - method: post
//	    url: https://host/endpoint
//	    request:
//	      json: {param: [1, 2]}
//	      params: {page: "1"}
//	    response:
//	      status: 201
//	      json: {success: true}
//	  - method: get
//	    url: 'https://host/users/\d+'
//	    regex: true
//	    response:
//	      text: user
//
// Loading and applying:
//
//	fixtures, err := config.LoadGlob("testdata/**/*.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	for _, f := range fixtures {
//	    if _, err := f.Apply(m); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// Schema returns the JSON Schema of the file format; CheckFile validates a
// raw file against it and reports violations by location.
//
// Request options are converted to the shapes the client sends: params to
// url.Values, headers to http.Header, cookies to map[string]string, a data
// string stays a string and a data mapping becomes url.Values.
package config
