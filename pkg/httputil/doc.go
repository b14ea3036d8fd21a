// Package httputil provides retry helpers for HTTP transports.
//
// [Retry] runs an operation with exponential backoff, retrying only errors
// the caller marked as transient with [Retryable]. [RetryableStatus] names
// the status codes worth another attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if httputil.RetryableStatus(resp.StatusCode) {
//	        return httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
//	    }
//	    return decode(resp.Body)
//	})
package httputil
