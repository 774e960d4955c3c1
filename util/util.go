package util

import (
	"net/http"
	"time"
)

// HTTPWithRetry retries a request-producing function a few times before
// giving up, for probing agents that may still be coming up.
func HTTPWithRetry(f func(string) (*http.Response, error), url string) (*http.Response, error) {

	count := 3

	var resp *http.Response
	var err error
	for i := 0; i < count; i++ {
		resp, err = f(url)
		if err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}

	return resp, err
}
