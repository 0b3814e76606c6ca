// Package config loads strider configuration files: client settings plus a
// set of named request templates with response expectations.
//
// Files are YAML (.yaml, .yml) or JSON (.json):
//
//	client:
//	  timeoutMsecs: 5000
//	  timing: true
//	  agent:
//	    maxIdleConnsPerHost: 16
//	    idleConnTimeout: 90s
//	variables:
//	  host: api.example.com
//	requests:
//	  createUser:
//	    method: POST_JSON          # GET | POST_FORM | POST_JSON | DELETE
//	    url: https://{{host}}/users
//	    body: {name: "{{user}}"}
//	    timeoutMsecs: 2000
//	    expect:
//	      status: [201]
//	      jsonpath: {"$.name": "ada"}
//
// Basic Usage:
//
//	file, err := config.Load("strider.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if errs := config.Validate(file); len(errs) > 0 {
//	    for _, e := range errs {
//	        log.Printf("Validation error: %s", e)
//	    }
//	    os.Exit(1)
//	}
//
//	opts, _ := file.Client.ClientOptions()
//	client, err := http.NewClient(opts...)
//	req, _ := file.Lookup("createUser")
//	result, err := config.Execute(ctx, client, req, file.Variables)
//
// Variable Substitution:
//
// {{name}} placeholders in URLs, params and bodies are replaced from the
// vars given to Execute, usually the variables section combined with
// command-line values through MergeVariables. Unknown placeholders are left
// as-is.
package config
