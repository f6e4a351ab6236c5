package shaders

const vertexBody = `
attribute vec3 a_position;
attribute vec3 a_normal;
attribute vec2 a_texCoord0;
attribute vec4 a_color;

uniform mat4 u_projectionViewMatrix;
uniform mat4 u_modelMatrix;
uniform mat3 u_normalMatrix;

varying vec3 v_normal;
varying vec2 v_texCoord0;
varying vec3 v_worldPos;
varying vec4 v_color;

void main() {
    vec4 worldPos = u_modelMatrix * vec4(a_position, 1.0);
    v_worldPos    = worldPos.xyz;
    v_normal      = normalize(u_normalMatrix * a_normal);
    v_texCoord0   = a_texCoord0;
    v_color       = a_color;
    gl_Position   = u_projectionViewMatrix * worldPos;
}
`

const fragmentBody = `
uniform vec3 ambient;
uniform vec3 dirLightDir;
uniform vec3 dirLightCol;
uniform vec3 camPos;

#if LIGHTS_NUM > 0
uniform vec3 lightsPos[LIGHTS_NUM];
uniform vec3 lightsCol[LIGHTS_NUM];
#endif

#ifdef diffuseTextureFlag
uniform sampler2D diffuseTexture;
#endif
#ifdef specularTextureFlag
uniform sampler2D specularTexture;
#endif
#ifdef diffuseColorFlag
uniform vec4 diffuseColor;
#endif
#ifdef specularColorFlag
uniform vec4 specularColor;
#endif
#ifdef emissiveColorFlag
uniform vec4 emissiveColor;
#endif
#ifdef shininessFlag
uniform float shininess;
#endif

varying vec3 v_normal;
varying vec2 v_texCoord0;
varying vec3 v_worldPos;
varying vec4 v_color;

void main() {
    vec4 diffuse = v_color;
#ifdef diffuseColorFlag
    diffuse *= diffuseColor;
#endif
#ifdef diffuseTextureFlag
    diffuse *= texture2D(diffuseTexture, v_texCoord0);
#endif

    vec3 n = normalize(v_normal);
    vec3 light = ambient + dirLightCol * max(dot(n, -dirLightDir), 0.0);

    vec3 specular = vec3(0.0);
    float shine = 16.0;
#ifdef shininessFlag
    shine = shininess;
#endif
    vec3 viewDir = normalize(camPos - v_worldPos);

#if LIGHTS_NUM > 0
    for (int i = 0; i < LIGHTS_NUM; i++) {
        vec3 d = lightsPos[i] - v_worldPos;
        float dist2 = dot(d, d);
        vec3 l = d * inversesqrt(max(dist2, 0.0001));
        float att = 1.0 / (1.0 + dist2);
        light += lightsCol[i] * max(dot(n, l), 0.0) * att;
        specular += lightsCol[i] * pow(max(dot(reflect(-l, n), viewDir), 0.0), shine) * att;
    }
#endif

    vec3 color = diffuse.rgb * light;
#ifdef specularColorFlag
    vec3 specColor = specularColor.rgb;
#ifdef specularTextureFlag
    specColor *= texture2D(specularTexture, v_texCoord0).rgb;
#endif
    color += specular * specColor;
#endif
#ifdef emissiveColorFlag
    color += emissiveColor.rgb;
#endif

#ifdef translucentFlag
    gl_FragColor = vec4(color, diffuse.a);
#else
    gl_FragColor = vec4(color, 1.0);
#endif
}
`
