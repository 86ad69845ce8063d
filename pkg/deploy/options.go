package deploy

import (
	"os"

	"sigs.k8s.io/yaml"
	loraserveerrors "loraserve.io/loraserve/pkg/errors"
)

const DefaultVariantName = "AllTraffic"

// EndpointSpec is the declarative description of one hosted endpoint. It is
// usually loaded from a yaml file.
type EndpointSpec struct {
	EndpointName       string `json:"endpointName"`
	ModelName          string `json:"modelName,omitempty"`
	EndpointConfigName string `json:"endpointConfigName,omitempty"`
	VariantName        string `json:"variantName,omitempty"`

	// Image is the serving container, loraserved baked in as entrypoint.
	Image            string `json:"image"`
	ModelDataUrl     string `json:"modelDataUrl,omitempty"`
	ExecutionRoleArn string `json:"executionRoleArn"`

	InstanceType  string `json:"instanceType"`
	InstanceCount int32  `json:"instanceCount,omitempty"`

	// Environment is handed to the container verbatim. The launcher reads
	// its contract from here: MODEL_DIR, LORA_MODULES_MANIFEST_FILE and the
	// rest.
	Environment map[string]string `json:"environment,omitempty"`
}

func LoadEndpointSpec(path string) (*EndpointSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec := &EndpointSpec{}
	if err := yaml.Unmarshal(raw, spec); err != nil {
		return nil, loraserveerrors.NewConfigInvalidError("endpoint spec: " + err.Error())
	}
	spec.Complete()
	return spec, spec.Validate()
}

// Complete fills derivable defaults.
func (s *EndpointSpec) Complete() {
	if s.ModelName == "" {
		s.ModelName = s.EndpointName + "-model"
	}
	if s.EndpointConfigName == "" {
		s.EndpointConfigName = s.EndpointName + "-config"
	}
	if s.VariantName == "" {
		s.VariantName = DefaultVariantName
	}
	if s.InstanceCount == 0 {
		s.InstanceCount = 1
	}
}

func (s *EndpointSpec) Validate() error {
	switch {
	case s.EndpointName == "":
		return loraserveerrors.NewConfigInvalidError("endpointName is required")
	case s.Image == "":
		return loraserveerrors.NewConfigInvalidError("image is required")
	case s.ExecutionRoleArn == "":
		return loraserveerrors.NewConfigInvalidError("executionRoleArn is required")
	case s.InstanceType == "":
		return loraserveerrors.NewConfigInvalidError("instanceType is required")
	}
	return nil
}
