package dto

import (
	"time"

	containerDomain "github.com/allisson/tokenbox/internal/container/domain"
	"github.com/allisson/tokenbox/internal/httputil"
)

// ContainerUserResponse is the owner entry in a container payload.
type ContainerUserResponse struct {
	UserName     string `json:"user_name"`
	UserRealm    string `json:"user_realm"`
	UserResolver string `json:"user_resolver"`
}

// ContainerResponse is the container payload inside the result envelope.
type ContainerResponse struct {
	Serial      string                  `json:"serial"`
	Type        string                  `json:"type"`
	Description string                  `json:"description"`
	States      []string                `json:"states"`
	Info        map[string]string       `json:"info"`
	Realms      []string                `json:"realms"`
	Users       []ContainerUserResponse `json:"users"`
	Tokens      []string                `json:"tokens"`
	LastSeen    time.Time               `json:"last_seen"`
	LastUpdated time.Time               `json:"last_updated"`
}

// MapContainerToResponse converts a container aggregate to its response payload.
func MapContainerToResponse(container *containerDomain.Container) ContainerResponse {
	response := ContainerResponse{
		Serial:      container.Serial,
		Type:        string(container.Type),
		Description: container.Description,
		States:      emptyIfNil(container.States),
		Info:        container.Info,
		Realms:      emptyIfNil(container.Realms),
		Users:       []ContainerUserResponse{},
		Tokens:      emptyIfNil(container.TokenSerials),
		LastSeen:    container.LastSeen,
		LastUpdated: container.LastUpdated,
	}
	if container.Info == nil {
		response.Info = map[string]string{}
	}
	if container.Owner != nil {
		response.Users = append(response.Users, ContainerUserResponse{
			UserName:     container.Owner.Login,
			UserRealm:    container.Owner.Realm,
			UserResolver: container.Owner.Resolver,
		})
	}
	return response
}

// ContainerListResponse is one page of containers with pagination cursors.
type ContainerListResponse struct {
	Containers []ContainerResponse `json:"containers"`
	Count      int                 `json:"count"`
	Current    int                 `json:"current"`
	Prev       *int                `json:"prev"`
	Next       *int                `json:"next"`
}

// MapContainersToListResponse converts a page of containers plus cursors.
func MapContainersToListResponse(
	containers []*containerDomain.Container,
	cursors httputil.Cursors,
) ContainerListResponse {
	response := ContainerListResponse{
		Containers: make([]ContainerResponse, 0, len(containers)),
		Count:      cursors.Count,
		Current:    cursors.Current,
		Prev:       cursors.Prev,
		Next:       cursors.Next,
	}
	for _, container := range containers {
		response.Containers = append(response.Containers, MapContainerToResponse(container))
	}
	return response
}

// TemplateResponse is the stored-template payload.
type TemplateResponse struct {
	Name    string `json:"name"`
	Type    string `json:"container_type"`
	Options string `json:"template_options"`
	Version int    `json:"version"`
}

// MapTemplateToResponse converts a template to its response payload.
func MapTemplateToResponse(template *containerDomain.Template) TemplateResponse {
	return TemplateResponse{
		Name:    template.Name,
		Type:    string(template.Type),
		Options: template.Options,
		Version: 1,
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
