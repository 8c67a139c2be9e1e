// Package api is the entry point for UI shells: batch save and batch trash,
// either as Go calls or as JSON commands.
package api

import (
	"encoding/json"
	"sync"

	"filesaver/internal/config"
	"filesaver/internal/errors"
	"filesaver/internal/organize"
	"filesaver/internal/trash"
	"filesaver/pkg/types"
)

// Command names understood by Dispatch
const (
	CommandSaveFiles       = "save_files"
	CommandSaveDeleteFiles = "save_delete_files"
)

// Service answers save and trash requests
type Service struct {
	saver   organize.Saver
	remover *trash.Remover
}

// New creates a Service from configuration
func New(cfg *config.Config) *Service {
	return NewService(
		organize.CurrentSaverFactory(organize.ConfigOptions(cfg)...),
		trash.FromConfig(cfg),
	)
}

// NewService creates a Service from its parts
func NewService(saver organize.Saver, bin trash.Bin) *Service {
	return &Service{saver: saver, remover: trash.NewRemover(bin)}
}

// SaveFiles places files into targetDirectory. A nil sortVariant places
// them flat.
func (s *Service) SaveFiles(files []types.UserFile, targetDirectory string, saveAction types.SaveAction, sortVariant *types.SortVariant) types.SaveResult {
	return *s.saver.SaveFiles(files, targetDirectory, saveAction, sortVariant)
}

// SaveDeleteFiles sends files to the trash
func (s *Service) SaveDeleteFiles(files []types.UserFile) types.RemoveResult {
	return *s.remover.Remove(files)
}

// SaveFilesRequest is the payload of the save_files command
type SaveFilesRequest struct {
	Files           []types.UserFile   `json:"files"`
	TargetDirectory string             `json:"targetDirectory"`
	SaveAction      types.SaveAction   `json:"saveAction"`
	SortVariant     *types.SortVariant `json:"sortVariant,omitempty"`
}

// SaveDeleteFilesRequest is the payload of the save_delete_files command
type SaveDeleteFilesRequest struct {
	Files []types.UserFile `json:"files"`
}

// Dispatch runs a JSON command and returns the JSON encoded result.
// Malformed payloads and unknown commands are reported as errors of kind
// InvalidInputData; batch failures are part of the result instead.
func (s *Service) Dispatch(command string, payload []byte) ([]byte, error) {
	switch command {
	case CommandSaveFiles:
		var req SaveFilesRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, invalidPayload(command, err)
		}
		if req.TargetDirectory == "" {
			return nil, errors.NewBatchError("missing targetDirectory", command, errors.InvalidInputData, nil)
		}
		return json.Marshal(s.SaveFiles(req.Files, req.TargetDirectory, req.SaveAction, req.SortVariant))

	case CommandSaveDeleteFiles:
		var req SaveDeleteFilesRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, invalidPayload(command, err)
		}
		return json.Marshal(s.SaveDeleteFiles(req.Files))

	default:
		return nil, errors.NewBatchError("unknown command", command, errors.InvalidInputData, nil)
	}
}

func invalidPayload(command string, err error) error {
	return errors.NewBatchError("invalid payload", command, errors.InvalidInputData, err)
}

var defaultService = sync.OnceValue(func() *Service {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.New()
	}
	return New(cfg)
})

// SaveFiles places files using the service built from the user's configuration
func SaveFiles(files []types.UserFile, targetDirectory string, saveAction types.SaveAction, sortVariant *types.SortVariant) types.SaveResult {
	return defaultService().SaveFiles(files, targetDirectory, saveAction, sortVariant)
}

// SaveDeleteFiles trashes files using the service built from the user's configuration
func SaveDeleteFiles(files []types.UserFile) types.RemoveResult {
	return defaultService().SaveDeleteFiles(files)
}

// Dispatch runs a JSON command using the service built from the user's configuration
func Dispatch(command string, payload []byte) ([]byte, error) {
	return defaultService().Dispatch(command, payload)
}
