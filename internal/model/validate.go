package model

func ValidateKey(key string) error {
	if key == "" {
		return InvalidArgumentError{Arg: "key", Reason: "empty"}
	}
	return nil
}

func ValidateSetFields(key string, fields map[string]string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if len(fields) == 0 {
		return InvalidArgumentError{Arg: "fields", Reason: "nothing to set"}
	}
	return nil
}

func ValidateDeleteFields(key string, fields []string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if len(fields) == 0 {
		return InvalidArgumentError{Arg: "fields", Reason: "nothing to delete"}
	}
	return nil
}
