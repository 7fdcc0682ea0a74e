package models

type ServiceResponse[T any] struct {
	Data     *T       `json:"data"`
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}

func GetServiceResponseOk[T any](data *T) ServiceResponse[T] {
	return ServiceResponse[T]{
		Data:  data,
		Error: "",
	}
}

func GetServiceResponseError(errorMessage string) ServiceResponse[any] {
	return ServiceResponse[any]{
		Data:  nil,
		Error: errorMessage,
	}
}

// GetServiceResponseWarning is for requests that were understood but could not run, like a missing upload
func GetServiceResponseWarning(warning string) ServiceResponse[any] {
	return ServiceResponse[any]{
		Data:     nil,
		Error:    warning,
		Warnings: []string{warning},
	}
}
