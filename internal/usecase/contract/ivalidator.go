package usecasecontract

// IValidator defines the validation operations used by the HTTP layer.
type IValidator interface {
	ValidateStruct(v interface{}) error
	ValidateSortMode(mode string) error
}
