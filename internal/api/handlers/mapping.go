package handlers

import (
	"contract-explorer-service/internal/api/dto"
	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/services"
)

func toStation(s domain.Station) dto.StationResponse {
	return dto.StationResponse{
		ID:           s.ID,
		Name:         s.Name,
		CruiseID:     s.CruiseID,
		ContractorID: s.ContractorID,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
	}
}

func toCluster(c domain.Cluster) dto.ClusterResponse {
	res := dto.ClusterResponse{
		ID:        c.ID,
		Longitude: c.Coordinates.Lon,
		Latitude:  c.Coordinates.Lat,
		Count:     c.Count,
	}
	if c.IsPoint() && c.Station != nil {
		st := toStation(*c.Station)
		res.Station = &st
		return res
	}
	res.SizeTier = string(domain.SizeTierFor(c.Count))
	res.ExpansionZoom = c.ExpansionZoom
	return res
}

func toViewport(ch services.ViewportChange, navigated bool) dto.ViewportResponse {
	res := dto.ViewportResponse{
		Seq:           ch.Seq,
		Longitude:     ch.Viewport.Longitude,
		Latitude:      ch.Viewport.Latitude,
		Zoom:          ch.Viewport.Zoom,
		Bearing:       ch.Viewport.Bearing,
		Pitch:         ch.Viewport.Pitch,
		UserNavigated: navigated,
	}
	if ch.HasBounds {
		res.Bounds = &dto.BoundsResponse{
			MinLat: ch.Bounds.MinLat,
			MaxLat: ch.Bounds.MaxLat,
			MinLon: ch.Bounds.MinLon,
			MaxLon: ch.Bounds.MaxLon,
		}
	}
	return res
}

func toCamera(ex *services.Explorer) *dto.CameraResponse {
	cam, ok := ex.Camera()
	if !ok {
		return nil
	}
	return &dto.CameraResponse{
		Seq:        cam.Seq,
		Longitude:  cam.Target.Longitude,
		Latitude:   cam.Target.Latitude,
		Zoom:       cam.Target.Zoom,
		DurationMs: cam.Duration.Milliseconds(),
	}
}

func toState(ex *services.Explorer) dto.StateResponse {
	st := ex.State()
	res := dto.StateResponse{
		Kind:           st.Kind.String(),
		CruiseID:       st.CruiseID,
		ContractorID:   st.ContractorID,
		PanelOpen:      st.PanelOpen,
		SummaryVisible: st.SummaryVisible,
		Loading:        st.Loading,
		Camera:         toCamera(ex),
	}
	if st.Station != nil {
		s := toStation(*st.Station)
		res.Station = &s
	}
	if st.Block != nil {
		res.Block = &dto.BlockAnalyticsResponse{BlockID: st.Block.BlockID, Data: st.Block.Data}
	}
	if st.Summary != nil {
		res.Summary = &dto.SummaryResponse{
			ContractorID:  st.Summary.ContractorID,
			TotalAreaKm2:  st.Summary.TotalAreaKm2,
			TotalStations: st.Summary.TotalStations,
			Fields:        st.Summary.Fields,
		}
	}
	if st.Popup != nil {
		res.Popup = &dto.PopupResponse{
			Layer:      st.Popup.Layer,
			FeatureID:  st.Popup.FeatureID,
			Longitude:  st.Popup.Coordinates.Lon,
			Latitude:   st.Popup.Coordinates.Lat,
			Properties: st.Popup.Properties,
		}
	}
	if t, ok := ex.Toast(); ok {
		res.Toast = &dto.ToastResponse{ID: t.ID, Kind: string(t.Kind), Message: t.Message, ExpiresAt: t.ExpiresAt}
	}
	return res
}
