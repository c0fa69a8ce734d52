package config

import "errors"

// Validate 针对语义级别做进一步校验，防止非法配置进入流水线。
func (o *Options) Validate() error {
	if o == nil {
		return errors.New("配置为空")
	}

	switch o.Output {
	case "", OutputVerbose, OutputTable, OutputJSON, OutputCSV:
	default:
		return newFieldError("Output", "仅支持 verbose|table|json|csv")
	}

	if o.APIBaseURL == "" {
		return newFieldError("APIBaseURL", "不能为空")
	}
	if o.APIVersion == "" {
		return newFieldError("APIVersion", "不能为空")
	}
	if o.HTTPTimeout.DurationValue() <= 0 {
		return newFieldError("HTTPTimeout", "必须大于 0")
	}
	if o.CacheDir == "" {
		return newFieldError("CacheDir", "不能为空")
	}
	if o.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if o.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}

	return nil
}
