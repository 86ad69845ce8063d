package deploy

import (
	"context"
	"time"

	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"k8s.io/apimachinery/pkg/util/wait"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

const DefaultPollInterval = 15 * time.Second

// WaitInService polls the endpoint until it reaches InService. A terminal
// Failed status aborts immediately with the platform's failure reason rather
// than polling out the context.
func (d *Deployer) WaitInService(ctx context.Context, endpointName string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return wait.PollUntilWithContext(ctx, interval, func(ctx context.Context) (bool, error) {
		status, err := d.Status(ctx, endpointName)
		if err != nil {
			return false, err
		}
		d.Log.Info("endpoint status", "name", endpointName, "status", status.Status)
		switch smtypes.EndpointStatus(status.Status) {
		case smtypes.EndpointStatusInService:
			return true, nil
		case smtypes.EndpointStatusFailed:
			return false, loraserveerrors.NewEndpointFailedError(endpointName, status.FailureReason)
		default:
			return false, nil
		}
	})
}
