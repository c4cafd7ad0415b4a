// Package skiff is a typed Go client for OpenAI-compatible HTTP APIs.
// It covers buffered JSON calls, server-sent event streams, and
// multipart file uploads, with every failure classified into a closed
// error taxonomy callers can branch on.
//
// Basic usage:
//
//	client, err := skiff.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.CreateChatCompletion(ctx, &skiff.ChatRequest{
//	    Model: "gpt-4o",
//	    Messages: []skiff.Message{
//	        {Role: skiff.RoleUser, Content: "Hello"},
//	    },
//	})
//	if err != nil {
//	    var apiErr *core.Error
//	    if errors.As(err, &apiErr) && apiErr.Retryable() {
//	        // back off and try again
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Text())
//
// Streaming:
//
//	stream, err := client.StreamChatCompletion(ctx, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Text())
//	}
//	if err := <-stream.Err; err != nil {
//	    log.Fatal(err)
//	}
//
// The packages layer as follows: core defines the request contracts,
// error taxonomy, and retry policy; transport executes descriptors and
// decodes streams; this package supplies the per-feature surfaces on
// top.
package skiff
