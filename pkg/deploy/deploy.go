// Package deploy drives the hosting platform API: model, endpoint config and
// endpoint lifecycle for the serving container.
package deploy

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/go-logr/logr"
	"k8s.io/utils/pointer"
)

// API is the slice of the sagemaker client the deployer uses.
type API interface {
	CreateModel(ctx context.Context, in *sagemaker.CreateModelInput, opts ...func(*sagemaker.Options)) (*sagemaker.CreateModelOutput, error)
	CreateEndpointConfig(ctx context.Context, in *sagemaker.CreateEndpointConfigInput, opts ...func(*sagemaker.Options)) (*sagemaker.CreateEndpointConfigOutput, error)
	CreateEndpoint(ctx context.Context, in *sagemaker.CreateEndpointInput, opts ...func(*sagemaker.Options)) (*sagemaker.CreateEndpointOutput, error)
	DescribeEndpoint(ctx context.Context, in *sagemaker.DescribeEndpointInput, opts ...func(*sagemaker.Options)) (*sagemaker.DescribeEndpointOutput, error)
	DeleteEndpoint(ctx context.Context, in *sagemaker.DeleteEndpointInput, opts ...func(*sagemaker.Options)) (*sagemaker.DeleteEndpointOutput, error)
	DeleteEndpointConfig(ctx context.Context, in *sagemaker.DeleteEndpointConfigInput, opts ...func(*sagemaker.Options)) (*sagemaker.DeleteEndpointConfigOutput, error)
	DeleteModel(ctx context.Context, in *sagemaker.DeleteModelInput, opts ...func(*sagemaker.Options)) (*sagemaker.DeleteModelOutput, error)
}

var _ API = &sagemaker.Client{}

type Deployer struct {
	API API
	Log logr.Logger
}

func NewDeployer(ctx context.Context, region string, log logr.Logger) (*Deployer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Deployer{API: sagemaker.NewFromConfig(cfg), Log: log}, nil
}

// Deploy creates the model, the endpoint config and the endpoint in order.
// It does not wait for the endpoint to come in service; see WaitInService.
func (d *Deployer) Deploy(ctx context.Context, spec *EndpointSpec) error {
	spec.Complete()
	if err := spec.Validate(); err != nil {
		return err
	}

	d.Log.Info("creating model", "name", spec.ModelName, "image", spec.Image)
	container := &smtypes.ContainerDefinition{
		Image:       aws.String(spec.Image),
		Environment: spec.Environment,
	}
	if spec.ModelDataUrl != "" {
		container.ModelDataUrl = aws.String(spec.ModelDataUrl)
	}
	if _, err := d.API.CreateModel(ctx, &sagemaker.CreateModelInput{
		ModelName:        aws.String(spec.ModelName),
		ExecutionRoleArn: aws.String(spec.ExecutionRoleArn),
		PrimaryContainer: container,
	}); err != nil {
		return err
	}

	d.Log.Info("creating endpoint config", "name", spec.EndpointConfigName, "instanceType", spec.InstanceType)
	if _, err := d.API.CreateEndpointConfig(ctx, &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String(spec.EndpointConfigName),
		ProductionVariants: []smtypes.ProductionVariant{{
			VariantName:          aws.String(spec.VariantName),
			ModelName:            aws.String(spec.ModelName),
			InstanceType:         smtypes.ProductionVariantInstanceType(spec.InstanceType),
			InitialInstanceCount: pointer.Int32(spec.InstanceCount),
			InitialVariantWeight: pointer.Float32(1),
		}},
	}); err != nil {
		return err
	}

	d.Log.Info("creating endpoint", "name", spec.EndpointName)
	_, err := d.API.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String(spec.EndpointName),
		EndpointConfigName: aws.String(spec.EndpointConfigName),
	})
	return err
}

type EndpointStatus struct {
	Name          string
	Status        string
	FailureReason string
}

func (d *Deployer) Status(ctx context.Context, endpointName string) (EndpointStatus, error) {
	out, err := d.API.DescribeEndpoint(ctx, &sagemaker.DescribeEndpointInput{
		EndpointName: aws.String(endpointName),
	})
	if err != nil {
		return EndpointStatus{}, err
	}
	return EndpointStatus{
		Name:          endpointName,
		Status:        string(out.EndpointStatus),
		FailureReason: pointer.StringDeref(out.FailureReason, ""),
	}, nil
}

// Delete tears down the endpoint and the resources Deploy created for it.
func (d *Deployer) Delete(ctx context.Context, spec *EndpointSpec) error {
	spec.Complete()
	d.Log.Info("deleting endpoint", "name", spec.EndpointName)
	if _, err := d.API.DeleteEndpoint(ctx, &sagemaker.DeleteEndpointInput{
		EndpointName: aws.String(spec.EndpointName),
	}); err != nil {
		return err
	}
	d.Log.Info("deleting endpoint config", "name", spec.EndpointConfigName)
	if _, err := d.API.DeleteEndpointConfig(ctx, &sagemaker.DeleteEndpointConfigInput{
		EndpointConfigName: aws.String(spec.EndpointConfigName),
	}); err != nil {
		return err
	}
	d.Log.Info("deleting model", "name", spec.ModelName)
	_, err := d.API.DeleteModel(ctx, &sagemaker.DeleteModelInput{
		ModelName: aws.String(spec.ModelName),
	})
	return err
}
