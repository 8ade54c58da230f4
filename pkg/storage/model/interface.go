package model

import "github.com/KeithOmondi/principle-registry/pkg/models"

type Storer interface {
	Store(models.GazetteFile) error
}

type Retriever interface {
	Retrieve(scanId string) (*models.GazetteFile, error)
}

type RWStorage interface {
	Storer
	Retriever
}
