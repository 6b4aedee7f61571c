package upstream

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v62/github"

	"github.com/huangsam/repopulse/internal/contract"
)

// classifyError converts go-github and transport errors into *contract.UpstreamError.
func classifyError(err error) *contract.UpstreamError {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &contract.UpstreamError{
			Status:  statusOf(rateErr.Response),
			Kind:    contract.UpstreamRateLimited,
			Message: rateErr.Message,
			Err:     err,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &contract.UpstreamError{
			Status:  statusOf(abuseErr.Response),
			Kind:    contract.UpstreamRateLimited,
			Message: abuseErr.Message,
			Err:     err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		ue := contract.ClassifyUpstream(statusOf(respErr.Response), respErr.Message)
		ue.Err = err
		return ue
	}

	return &contract.UpstreamError{Kind: contract.UpstreamGeneric, Message: err.Error(), Err: err}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
